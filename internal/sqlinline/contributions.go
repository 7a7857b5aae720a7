package sqlinline

const QInsertContribution = `--sql e084796b-6834-44b1-9f2d-fb22c218b81f
insert into contributions(id, issue_id, contributor_name, contributor_email, amount, phone, address, additional_info, created_at)
values ($1::text, nullif($2::text, ''), $3::text, $4::text, $5::numeric, $6::text, $7::text, $8::text, $9::timestamptz);
`

const QListContributionsByIssue = `--sql 8d2f8cd5-2ff6-41ec-978b-5859785d563a
select id, coalesce(issue_id, ''), contributor_name, contributor_email, amount::text, phone, address, additional_info, created_at
from contributions
where issue_id = $1::text
order by created_at, id;
`

const QListContributionsByEmail = `--sql 6ccf0b6a-e07c-4df2-bb02-6ba5d062f5d3
select id, coalesce(issue_id, ''), contributor_name, contributor_email, amount::text, phone, address, additional_info, created_at
from contributions
where lower(contributor_email) = lower($1::text)
order by created_at, id;
`

const QListContributions = `--sql 0977a2cd-f0ae-4d4d-8331-18394b7b2280
select id, coalesce(issue_id, ''), contributor_name, contributor_email, amount::text, phone, address, additional_info, created_at
from contributions
order by created_at, id;
`
