package sqlinline

const QHealthCheck = `--sql f1e6d2c8-0a37-4b59-8412-6c5db9e03a71
select 1;
`
