package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"

	"charatalk/internal/render"
)

// rendertester connects to the render WebSocket like a rendering engine
// would and prints every state/talk event it receives. Useful for checking
// mood transitions and utterance payloads without a real engine attached.
func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	endpoint := flag.String("url", "ws://localhost:8080/api/render", "render WebSocket base URL")
	session := flag.String("session", "", "session ID to attach to (required)")
	timeout := flag.Duration("timeout", 10*time.Second, "dial timeout")
	flag.Parse()

	if *session == "" {
		flag.Usage()
		log.Fatal("specify the session to observe with -session")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	dialCtx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	url := *endpoint + "/" + *session
	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, url, nil)
	if err != nil {
		log.Fatalf("failed to connect to %s: %v", url, err)
	}
	defer conn.Close()

	log.Printf("observing render events at %s", url)

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		var event render.Event
		if err := conn.ReadJSON(&event); err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Fatalf("read error: %v", err)
		}

		switch event.Type {
		case render.EventState:
			log.Printf("state -> %s", event.Value)
		case render.EventTalk:
			log.Printf("talk  -> %s", event.Value)
		default:
			log.Printf("%s -> %s", event.Type, event.Value)
		}
	}
}
