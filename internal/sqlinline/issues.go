package sqlinline

const QInsertIssue = `--sql 06bdb6e2-cac0-4fc8-9535-0651c236cb80
insert into issues(id, title, category, location, description, image_url, suggested_budget, status, reporter_email, created_at, updated_at)
values ($1::text, $2::text, $3::text, $4::text, $5::text, $6::text, $7::numeric, $8::text, $9::text, $10::timestamptz, now());
`

const QSelectIssueByID = `--sql df52ce14-2e57-446a-bd3e-0803723f4877
select id, title, category, location, description, image_url, suggested_budget::text, status, reporter_email, created_at
from issues
where id = $1::text and deleted_at is null;
`

const QSelectIssuesByIDs = `--sql c6ffcf69-1378-41be-8209-5cbba3af10c7
select id, title, category, location, description, image_url, suggested_budget::text, status, reporter_email, created_at
from issues
where id = any($1::text[]) and deleted_at is null;
`

const QListIssues = `--sql a4cf2054-411f-4b13-b0b8-7c8dc90fbc5c
select id, title, category, location, description, image_url, suggested_budget::text, status, reporter_email, created_at
from issues
where deleted_at is null
  and ($1::text = '' or lower(reporter_email) = lower($1::text))
  and ($2::text = '' or category = $2::text)
order by created_at desc, id;
`

const QUpdateIssue = `--sql 03e49e4e-f007-4be3-9825-958882a49899
update issues
set title = $2::text,
    category = $3::text,
    location = $4::text,
    description = $5::text,
    suggested_budget = $6::numeric,
    status = $7::text,
    updated_at = now()
where id = $1::text and deleted_at is null;
`

const QSoftDeleteIssue = `--sql 25baa56e-0fb8-4635-a2c2-fa14537376c7
update issues
set deleted_at = now(), updated_at = now()
where id = $1::text and deleted_at is null;
`

const QSelectIssueOwnership = `--sql d09d8350-1401-4846-8951-9f7256c6e312
select reporter_email, deleted_at is not null
from issues
where id = $1::text;
`
