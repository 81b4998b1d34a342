package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"

	"digdeep.game/internal/protocol"
)

func main() {
	var (
		url      = flag.String("url", "ws://localhost:8080/v1/ws", "ws url")
		name     = flag.String("name", "bot", "client name")
		interval = flag.Duration("interval", 250*time.Millisecond, "delay between dig commands")
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
		ClientName:      *name,
		MaxQueue:        32,
	}
	if err := conn.WriteJSON(hello); err != nil {
		logger.Fatalf("send HELLO: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	// Dig on a timer; the server rejects digs inside the cooldown window,
	// which is fine for a bot.
	go func() {
		var n int
		for range time.Tick(*interval) {
			n++
			cmd := protocol.CmdMsg{
				Type:            protocol.TypeCmd,
				ProtocolVersion: protocol.Version,
				CmdID:           fmt.Sprintf("dig_%d", n),
				Op:              protocol.OpDig,
			}
			if err := conn.WriteJSON(cmd); err != nil {
				return
			}
		}
	}()

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
			logger.Printf("WELCOME session=%s tick_rate=%d cooldown=%dms seed=%d",
				w.SessionID, w.Params.TickRateHz, w.Params.ClickCooldownMs, w.Params.Seed)

		case protocol.TypeAck:
			var ack protocol.AckMsg
			if err := json.Unmarshal(msg, &ack); err != nil {
				continue
			}
			if !ack.Accepted && ack.Code != protocol.ErrCooldown {
				logger.Printf("ACK %s rejected: %s %s", ack.AckFor, ack.Code, ack.Message)
			}

		case protocol.TypeEvent:
			var ev protocol.EventMsg
			if err := json.Unmarshal(msg, &ev); err != nil {
				continue
			}
			for _, e := range ev.Events {
				switch e.Name {
				case "achievementUnlocked", "layerChanged", "discoveryFound", "hazardWarning", "hazardActivated":
					b, _ := json.Marshal(e.Data)
					logger.Printf("EVENT %s %s", e.Name, b)
				}
			}

		case protocol.TypeState:
			var st protocol.StateMsg
			if err := json.Unmarshal(msg, &st); err != nil {
				continue
			}
			var summary struct {
				Depth     float64            `json:"depth"`
				Layer     string             `json:"layer"`
				Resources map[string]float64 `json:"resources"`
			}
			if err := json.Unmarshal(st.State, &summary); err != nil {
				continue
			}
			logger.Printf("STATE tick=%d depth=%.1f layer=%s dirt=%.0f stone=%.0f gems=%.0f",
				st.ServerTick, summary.Depth, summary.Layer,
				summary.Resources["dirt"], summary.Resources["stone"], summary.Resources["gems"])
		}
	}
}
