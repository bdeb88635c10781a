// tiltak-serve exposes the engine over a websocket, one connection per game, so a browser
// client can play against it without shelling out to a console process.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/websocket"
	"github.com/herohde/tiltak/pkg/engine"
	"github.com/herohde/tiltak/pkg/engine/console"
	"github.com/seekerror/logw"
)

var (
	addr = flag.String("addr", ":8080", "Listen address")
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func main() {
	flag.Parse()
	ctx := context.Background()

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		handleConn(ctx, w, r)
	})

	fmt.Fprintf(os.Stderr, "tiltak-serve listening on %v\n", *addr)
	logw.Exitf(ctx, "Server stopped: %v", http.ListenAndServe(*addr, nil))
}

// handleConn runs one engine instance for the lifetime of a single websocket connection,
// translating inbound text frames into console driver input and outbound driver lines back
// into text frames.
func handleConn(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logw.Errorf(ctx, "Upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	e := engine.New(ctx, "tiltak", "herohde")

	in := make(chan string)
	driver, out := console.NewDriver(ctx, e, in)

	go func() {
		defer close(in)
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			in <- string(msg)
		}
	}()

	for line := range out {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
			break
		}
	}

	<-driver.Closed()
}
