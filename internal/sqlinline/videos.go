package sqlinline

const QInsertVideo = `--sql 58d1f6b3-9c2e-4a70-b48d-637e0a1c95f2
insert into videos (user_id, prompt, image_url, status, created_at, updated_at)
values ($1::uuid, $2::text, $3::text, $4::text, now(), now())
returning id, created_at;
`

const QMarkVideoCompleted = `--sql a6e84c07-1f5b-4d92-8c30-4b9d72e6a185
update videos
set status     = 'COMPLETED',
    video_url  = $2::text,
    updated_at = now()
where id = $1::uuid
  and status in ('PENDING', 'PROCESSING');
`

const QMarkVideoFailed = `--sql c24f80d9-7e3a-4b16-a5c8-1d60e9b3f472
update videos
set status     = 'FAILED',
    updated_at = now()
where id = $1::uuid
  and status in ('PENDING', 'PROCESSING');
`

const QListVideosByUser = `--sql 912b3e6a-d05c-48f7-9e14-86a2c7d0b539
select id, user_id, prompt, image_url, coalesce(video_url, ''), status, created_at, updated_at
from videos
where user_id = $1::uuid
order by created_at desc
limit 50;
`

const QDeleteVideoOwned = `--sql 4d7a1c82-6b9f-4e03-bd25-f381c05a96e7
delete from videos
where id = $1::uuid
  and user_id = $2::uuid;
`
