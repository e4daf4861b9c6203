package server

import (
	"Orbit/handler"
)

type Handlers struct {
	Point    *handler.Point
	Checkin  *handler.Checkin
	Product  *handler.Product
	Referral *handler.Referral
	Admin    *handler.Admin
}
