// Command provision prepares the location store. It is the only way to run
// the privileged operations; none of them is reachable over HTTP.
//
//	provision setup-postgis [-rds]
//	provision create-tables
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-geonotify/internal/config"
	"github.com/go-geonotify/internal/infrastructure/postgis"
	"github.com/go-geonotify/internal/infrastructure/sqlite"
	"github.com/joho/godotenv"
)

type provisioner interface {
	SetupExtensions(ctx context.Context, rds bool) error
	CreateTables(ctx context.Context) error
	Close() error
}

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		usage()
	}
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "setup-postgis":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		rds := fs.Bool("rds", false, "transfer extension schema ownership to rds_superuser")
		_ = fs.Parse(args)
		run(cfg, func(ctx context.Context, p provisioner) error {
			return p.SetupExtensions(ctx, *rds)
		})
	case "create-tables":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		yes := fs.Bool("yes", false, "confirm dropping existing campaigns and users")
		_ = fs.Parse(args)
		if !*yes {
			log.Fatal("create-tables drops all campaigns and users; rerun with -yes to confirm")
		}
		run(cfg, func(ctx context.Context, p provisioner) error {
			return p.CreateTables(ctx)
		})
	default:
		usage()
	}
	log.Printf("%s: done", cmd)
}

func run(cfg *config.Config, fn func(context.Context, provisioner) error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	p, err := open(ctx, cfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer p.Close()

	if err := fn(ctx, p); err != nil {
		log.Fatalf("provision: %v", err)
	}
}

func open(ctx context.Context, cfg *config.Config) (provisioner, error) {
	if cfg.StoreDriver == config.StoreDriverSQLite {
		return sqlite.Open(cfg.StoreURL)
	}
	return postgis.Open(ctx, cfg)
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: provision setup-postgis [-rds] | create-tables -yes")
	os.Exit(2)
}
