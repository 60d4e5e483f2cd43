package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"nhooyr.io/websocket"

	"armctl/pkg/command"
)

// EchoCommand runs a local stand-in for the remote arm controller: it logs
// every frame it receives and acknowledges it, which is enough to bench the
// console and the link without hardware.
type EchoCommand struct {
	Listen string `long:"listen" default:":8765" description:"Listen address"`
}

func (c *EchoCommand) Execute(args []string) error {
	log.Printf("echo endpoint listening on %s", c.Listen)

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			log.Printf("accept failed: %v", err)
			return
		}
		log.Printf("client connected from %s", r.RemoteAddr)
		defer conn.Close(websocket.StatusNormalClosure, "")

		ctx := r.Context()
		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				log.Printf("client gone: %v", err)
				return
			}

			var snap command.Snapshot
			if err := json.Unmarshal(data, &snap); err == nil {
				log.Printf("command: gripper=%s roller=%s wrist=%d elbow=%+v shoulder=%+v base=%+v",
					snap.Gripper, snap.Roller, snap.Wrist, snap.Elbow, snap.Shoulder, snap.Base)
			} else {
				log.Printf("text: %s", data)
			}

			if err := conn.Write(ctx, websocket.MessageText, []byte("ack")); err != nil {
				log.Printf("ack failed: %v", err)
				return
			}
		}
	})

	if err := http.ListenAndServe(c.Listen, nil); err != nil {
		return fmt.Errorf("echo server: %w", err)
	}
	return nil
}
