package dal

import (
	"papertrade/biz/dal/kafka"
	"papertrade/biz/dal/pg"
	"papertrade/biz/dal/redis"
)

func Init() {
	pg.Init()
	redis.Init()
	kafka.Init()
}
