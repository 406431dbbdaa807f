package main

import (
	"context"
	"flag"
	"io"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/sauerbraten/croupier/internal/events"
	"github.com/sauerbraten/croupier/internal/masterserver"
	"github.com/sauerbraten/croupier/internal/tcplisten"
	"github.com/sauerbraten/croupier/internal/web"
	"github.com/sauerbraten/croupier/pkg/bans"
	"github.com/sauerbraten/croupier/pkg/game"
	"github.com/sauerbraten/croupier/pkg/game/quiz"
	"github.com/sauerbraten/croupier/pkg/game/sum"
	"github.com/sauerbraten/croupier/pkg/server"
)

var games = game.Registry{
	"quiz": quiz.FromOptions,
	"sum":  sum.FromOptions,
}

func main() {
	configFile := flag.String("config", "config.json", "path to the configuration file")
	flag.Parse()

	conf, err := parseConfig(*configFile)
	if err != nil {
		log.Fatalln(err)
	}

	bm := bans.New()
	if conf.BansFile != "" {
		bansFromFile, err := bans.FromFile(conf.BansFile)
		if err != nil {
			log.Fatalln(err)
		}
		bm = bans.New(bansFromFile...)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	upSince := time.Now()

	var (
		acceptor server.Acceptor = server.Hello{}
		numClients               = func() int { return 0 }
	)

	if conf.Mode == modeGame {
		var pub events.Publisher
		if conf.NATSURL != "" {
			nc, err := nats.Connect(conf.NATSURL, nats.Name("croupier"))
			if err != nil {
				log.Println("could not connect to NATS, broadcasts will not be published:", err)
			} else {
				defer nc.Close()
				pub = nc
			}
		}

		s, err := server.New(func(s game.Server) (game.Game, error) {
			if pub != nil {
				s = events.NewMirror(s, pub, conf.EventsSubject, conf.Game)
			}
			return games.New(conf.Game, s, conf.GameOptions)
		})
		if err != nil {
			log.Fatalln(err)
		}
		defer func() {
			s.Close()
			if c, ok := s.Game().(io.Closer); ok {
				c.Close()
			}
		}()

		acceptor = s
		numClients = s.NumClients
	}

	laddr := &net.TCPAddr{IP: net.ParseIP(conf.ListenAddress), Port: conf.ListenPort}
	l, err := net.ListenTCP("tcp", laddr)
	if err != nil {
		log.Fatalln(err)
	}

	if conf.HTTPListenAddress != "" {
		h := web.New(acceptor, bm, func() web.Status {
			return web.Status{
				Mode:    conf.Mode,
				Game:    conf.Game,
				Clients: numClients(),
				UpSince: upSince,
			}
		})
		srv := &http.Server{
			Addr:        conf.HTTPListenAddress,
			Handler:     h.Routes(),
			ReadTimeout: 15 * time.Second,
		}
		go func() {
			log.Println("http server running on", conf.HTTPListenAddress)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Println("http server:", err)
			}
		}()
		defer srv.Close()
	}

	if conf.MasterServerAddress != "" {
		masterserver.Connect(ctx, conf.MasterServerAddress, conf.ListenPort, bm)
	}

	log.Println("server running on port", conf.ListenPort)

	if err := tcplisten.Serve(ctx, l, acceptor, bm); err != nil {
		log.Println(err)
	}

	log.Println("shutting down")
}
