package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"

	"slowtown.ai/internal/protocol"
)

type bot struct {
	conn   *websocket.Conn
	logger *log.Logger
	rng    *rand.Rand
	seq    int

	claimed bool
}

func main() {
	var (
		url  = flag.String("url", "ws://localhost:8080/v1/ws", "ws url")
		name = flag.String("name", "bot", "player name")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags|log.Lmicroseconds)
	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		PlayerName:      *name,
		Capabilities:    protocol.HelloCapabilities{MaxQueue: 8},
	}
	if err := conn.WriteJSON(hello); err != nil {
		logger.Fatalf("send HELLO: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	b := &bot{conn: conn, logger: logger, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
	for {
		select {
		case <-stop:
			return
		default:
		}

		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			continue
		}
		switch base.Type {
		case protocol.TypeWelcome:
			var w protocol.WelcomeMsg
			if err := json.Unmarshal(msg, &w); err != nil {
				continue
			}
			logger.Printf("WELCOME session=%s tick_rate=%d seed=%d", w.SessionID, w.WorldParams.TickRateHz, w.WorldParams.Seed)

		case protocol.TypeNotify:
			var n protocol.NotifyMsg
			if err := json.Unmarshal(msg, &n); err != nil {
				continue
			}
			logger.Printf("NOTIFY %s: %s", n.Kind, n.Message)

		case protocol.TypeAck:
			var a protocol.AckMsg
			if err := json.Unmarshal(msg, &a); err != nil {
				continue
			}
			if !a.Accepted {
				logger.Printf("ACK %s rejected: %s %s", a.AckFor, a.Code, a.Message)
			}

		case protocol.TypeState:
			var st protocol.StateMsg
			if err := json.Unmarshal(msg, &st); err != nil {
				continue
			}
			b.handleState(&st)
		}
	}
}

func (b *bot) act(tick uint64, action string, params protocol.ActParams) {
	b.seq++
	_ = b.conn.WriteJSON(protocol.ActMsg{
		Type:            protocol.TypeAct,
		ProtocolVersion: protocol.Version,
		Tick:            tick,
		ID:              fmt.Sprintf("bot_%d", b.seq),
		Action:          action,
		Params:          params,
	})
}

// handleState plays a simple town: claim once, keep a small crew, build farms
// near the origin and harvest whatever is ripe.
func (b *bot) handleState(st *protocol.StateMsg) {
	if !b.claimed {
		b.claimed = true
		b.act(st.Tick, protocol.ActClaimResources, protocol.ActParams{})
		return
	}

	for _, c := range st.Crops {
		if c.Mature {
			b.act(st.Tick, protocol.ActHarvest, protocol.ActParams{TargetID: c.ID})
		}
	}

	if st.Tick%50 != 0 {
		return
	}
	if len(st.Workers) < 4 {
		b.act(st.Tick, protocol.ActSpawnWorker, protocol.ActParams{})
		return
	}

	foundations := 0
	for _, s := range st.Structures {
		if s.Kind == "foundation" && !s.Completed {
			foundations++
		}
		if s.Kind == "building" && s.Type == "farm" && len(s.Crops) == 0 {
			b.act(st.Tick, protocol.ActPlantCrop, protocol.ActParams{TargetID: s.ID, Kind: "carrot"})
			return
		}
	}
	if foundations < 2 {
		pos := [3]float64{float64(b.rng.Intn(41) - 20), 0, float64(b.rng.Intn(41) - 20)}
		b.act(st.Tick, protocol.ActPlaceFoundation, protocol.ActParams{Pos: &pos, Kind: "farm"})
	}
}
