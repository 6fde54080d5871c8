package sqlinline

const QUpsertUserByClerkID = `--sql 7f3c2a91-4b6d-4e1a-9c5f-2d8e0b714a63
insert into users (clerk_id, email, first_name, last_name, video_limit, videos_used, created_at, updated_at)
values ($1::text, $2::text, $3::text, $4::text, $5::int, 0, now(), now())
on conflict (clerk_id) do update set clerk_id = excluded.clerk_id
returning id, clerk_id, email, first_name, last_name, video_limit, videos_used, created_at, updated_at;
`

const QSelectUserByClerkID = `--sql b0a4d9f2-61c8-47e5-8a3b-fd5c19e27b40
select id, clerk_id, email, first_name, last_name, video_limit, videos_used, created_at, updated_at
from users
where clerk_id = $1::text
limit 1;
`

const QIncrementVideosUsed = `--sql 3e9b7c15-2a4f-4d08-b6e1-90afc4d8527e
update users
set videos_used = videos_used + 1,
    updated_at  = now()
where id = $1::uuid;
`
