package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/danmuck/relayctl/internal/client"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: relayctl [-config path.toml] <proxy_host> <proxy_port> <url>")
	fmt.Fprintln(os.Stderr, "Example: relayctl 127.0.0.1 8888 https://example.com/")
}

func main() {
	configPath := flag.String("config", "", "path to relayctl TOML config")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 3 {
		usage()
		os.Exit(1)
	}
	host := flag.Arg(0)
	port, err := strconv.Atoi(flag.Arg(1))
	if err != nil || port <= 0 || port > 65535 {
		fmt.Fprintf(os.Stderr, "Error: invalid proxy port %q\n", flag.Arg(1))
		os.Exit(1)
	}
	rawURL := flag.Arg(2)

	settings := defaultSettings()
	if *configPath != "" {
		settings, err = loadClientSettings(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
	}

	c, err := client.New(client.Config{
		Address: net.JoinHostPort(host, strconv.Itoa(port)),
		Timeout: settings.Timeout,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	body, ctype, err := c.Fetch(context.Background(), rawURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}

	path, err := client.Save(settings.OutputDir, rawURL, ctype, body)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}

	fmt.Printf("Saved %d bytes to %s (Content-Type: %s)\n", len(body), path, ctype)
}
