/*
flag Package set up cli flags shared across services

Usage:

	Flags listed in this package are shared across boundaries and service-agnostic
	For service dependent flags please define in their respective package
*/

package flag

import (
	"flag"
)

const (
	APIServer = "api_server"
)

var (
	IsDevelopment bool
	ServiceName   string
	ByPassAuth    bool
)

func init() {
	flag.BoolVar(&IsDevelopment, "dev", true, "set to true if the current run is for development. default value is true")
	flag.StringVar(&ServiceName, "service", APIServer, "name of the running service")
	flag.BoolVar(&ByPassAuth, "bypass_auth", false, "set to true to skip bearer token verification, local debugging only")
}

// Parse must be called from main, not init: parsing at init time races with the
// testing package registering its own flags.
func Parse() {
	flag.Parse()
}
