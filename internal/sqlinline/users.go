package sqlinline

const QUpsertUser = `--sql 9a212083-ea0d-4c48-b38a-8b27fe14b1e9
insert into users(id, email, name, photo_url, created_at, updated_at)
values ($1::text, lower($2::text), $3::text, $4::text, now(), now())
on conflict (email) do update set
    name = coalesce(nullif(excluded.name, ''), users.name),
    photo_url = coalesce(nullif(excluded.photo_url, ''), users.photo_url),
    updated_at = now()
returning id, email, name, photo_url, created_at;
`

const QListUsers = `--sql 921b56de-021c-4252-9bd5-a283f964b283
select id, email, name, photo_url, created_at
from users
order by created_at, email;
`

const QCountUsers = `--sql 169712b1-3046-45a2-a8f4-507592ec3792
select count(*) from users;
`
