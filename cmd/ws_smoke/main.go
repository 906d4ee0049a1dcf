package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"minesweeper/internal/service"

	"github.com/gorilla/websocket"
)

// Dials a running server, starts an easy game, clicks the centre and
// prints every event received for a few seconds.
func main() {
	playerID := flag.Int64("player", 0, "player id to sign a token for")
	name := flag.String("name", "smoke", "player name in the token")
	wait := flag.Duration("wait", 3*time.Second, "how long to print events")
	flag.Parse()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET not set")
	}
	if *playerID == 0 {
		log.Fatal("-player is required (see cmd/create_player)")
	}
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	service.InitJWT(jwtSecret)
	token, err := service.GenerateJWT(*playerID, *name)
	if err != nil {
		log.Fatalf("gen token: %v", err)
	}

	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	wsURL := fmt.Sprintf("ws://127.0.0.1:%s/ws?token=%s", port, token)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		log.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	send := func(msgType string, payload any) {
		msg := map[string]any{"type": msgType}
		if payload != nil {
			msg["payload"] = payload
		}
		if err := conn.WriteJSON(msg); err != nil {
			log.Fatalf("write %s: %v", msgType, err)
		}
	}

	send("start", map[string]any{"difficulty": "easy"})
	send("click", map[string]any{"row": 5, "col": 5})

	deadline := time.Now().Add(*wait)
	for time.Now().Before(deadline) {
		_ = conn.SetReadDeadline(deadline)
		_, msg, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var env struct {
			Type string `json:"type"`
		}
		_ = json.Unmarshal(msg, &env)
		log.Printf("%s: %d bytes", env.Type, len(msg))
	}

	log.Println("smoke test finished")
}
