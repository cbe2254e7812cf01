package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/ekobres/bim/internal/speedtest"
)

func main() {
	fs := pflag.NewFlagSet("bim", pflag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s DOWNLOAD_URL UPLOAD_URL [options]\n", os.Args[0])
		fs.PrintDefaults()
	}

	clientName := fs.StringP("client", "c", "http", "set test client (http|tcp)")
	// -m's value is optional (NoOptDefVal): bare -m means 8 threads, -m 16
	// means 16, and the flag's absence means 1.
	multi := fs.StringP("multi", "m", "", "enable multi thread mode (optional thread count, default 8)")
	fs.Lookup("multi").NoOptDefVal = "8"
	ipv6 := fs.BoolP("ipv6", "6", false, "enable ipv6")
	name := fs.BoolP("name", "n", false, "print justified name and exit")
	help := fs.BoolP("help", "h", false, "print this help menu")
	debug := fs.Bool("debug", false, "enable verbose worker/controller logging")

	// pflag never takes a separate argument as the value of a NoOptDefVal
	// flag, so "-m 16" is joined into "-m=16" before parsing.
	argv := make([]string, 0, len(os.Args))
	for i := 1; i < len(os.Args); i++ {
		a := os.Args[i]
		if (a == "-m" || a == "--multi") && i+1 < len(os.Args) {
			if _, err := strconv.Atoi(os.Args[i+1]); err == nil {
				a += "=" + os.Args[i+1]
				i++
			}
		}
		argv = append(argv, a)
	}

	if err := fs.Parse(argv); err != nil {
		fs.Usage()
		os.Exit(0)
	}

	if *help {
		fs.Usage()
		os.Exit(0)
	}

	speedtest.SetDebug(*debug)

	args := fs.Args()
	if len(args) == 0 {
		fs.Usage()
		os.Exit(0)
	}

	if *name {
		fmt.Print(speedtest.JustifyName(args[0]))
		os.Exit(0)
	}

	if len(args) < 2 {
		fs.Usage()
		os.Exit(0)
	}
	downloadURL, uploadURL := args[0], args[1]

	dialect, ok := speedtest.ParseDialect(*clientName)
	if !ok {
		fs.Usage()
		os.Exit(0)
	}

	workers := 1
	if fs.Lookup("multi").Changed {
		if *multi == "" {
			workers = 8
		} else {
			n, err := strconv.Atoi(*multi)
			if err != nil || n < 1 || n > 255 {
				fs.Usage()
				os.Exit(0)
			}
			workers = n
		}
	}

	family := speedtest.FamilyV4
	if *ipv6 {
		family = speedtest.FamilyV6
	}

	cfg := speedtest.Config{
		DownloadURL: downloadURL,
		UploadURL:   uploadURL,
		Family:      family,
		Workers:     workers,
		Dialect:     dialect,
	}

	result := speedtest.NewController(cfg).Run()
	fmt.Println(result.Text())
	os.Exit(0)
}
