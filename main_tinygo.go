//go:build tinygo

package main

import (
	"context"

	"green/app"
	"green/hal"
	"green/internal/buildinfo"
)

func main() {
	h := hal.New()
	h.Logger().WriteLineString("green " + buildinfo.Short())
	if _, err := app.Run(context.Background(), h, app.DefaultConfig()); err != nil {
		h.Logger().WriteLineString(err.Error())
	}
	select {}
}
