package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"syscall"

	"github.com/oklog/run"

	"github.com/mmsim/mmsim/bus"
	"github.com/mmsim/mmsim/mm"
	"github.com/mmsim/mmsim/service"
)

// goreleaser will replace version with Git version. You can also pass
// version into the go build:
//   go build -ldflags="-X main.version=1.2.3"
var version = "Development"

func main() {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	flagVersion := flags.Bool("version", false, "Print app version")
	flagConfig := flags.String("config", "", "Simulator fixture (YAML)")
	flagBus := flags.String("bus", "auto", "Bus to connect to: system, session, or auto")
	flags.Parse(os.Args[1:])

	if *flagVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	log.Printf("mmsimd %v\n", version)

	if err := runService(*flagConfig, bus.Mode(*flagBus)); err != nil {
		log.Fatal("mmsimd stopped, reason: ", err)
	}
	log.Println("mmsimd stopped")
}

func runService(configPath string, mode bus.Mode) error {
	cfg, err := service.LoadConfig(configPath)
	if err != nil {
		return err
	}

	conn, err := bus.Connect(mode)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := bus.RequestName(conn); err != nil {
		return err
	}
	log.Println("acquired bus name:", mm.BusName)

	loop := service.NewLoop()
	svc := bus.New(conn, loop)
	mgr := service.NewManager(cfg, loop, svc)

	if err := svc.Export(mgr); err != nil {
		return err
	}
	for _, m := range mgr.Modems() {
		log.Println("mock modem at", m.Path())
	}

	var g run.Group
	g.Add(loop.Run, loop.Stop)
	g.Add(run.SignalHandler(context.Background(),
		syscall.SIGINT, syscall.SIGTERM))

	err = g.Run()
	if _, ok := err.(run.SignalError); ok {
		return nil
	}
	return err
}
