package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	log.SetFlags(0)

	args, err := getArgs(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	s := NewServer(args.Password)
	if err := s.Listen(args.Port); err != nil {
		log.Fatal(err)
	}

	log.Printf("listening on port %d", args.Port)

	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("received %s, shutting down", sig)
		cancel()
	}()

	s.Run(ctx)

	log.Printf("server shutdown cleanly")
}
