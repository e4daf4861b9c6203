package service

import "time"

// Clock 当前时间，测试中替换为固定时间
type Clock func() time.Time

func NewClock() Clock {
	return time.Now
}
