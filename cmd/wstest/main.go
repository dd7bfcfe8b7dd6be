// Package main provides a load testing tool for the realtime event feed.
// It logs in, opens many concurrent websocket channels for the same
// account and tallies the events pushed to them.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"sort"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

type metrics struct {
	attempted int64
	connected int64
	failed    int64
	received  int64

	mu     sync.Mutex
	byType map[string]int64
}

var stats = metrics{byType: make(map[string]int64)}

func main() {
	host := flag.String("host", "localhost:8080", "API server host")
	email := flag.String("email", "shelter1@pawhaven.dev", "Account email")
	password := flag.String("password", "password123", "Account password")
	clients := flag.Int("clients", 10, "Number of concurrent channels")
	duration := flag.Duration("duration", 30*time.Second, "Test duration")
	guest := flag.Bool("guest", false, "Connect without a token")
	flag.Parse()

	log.Printf("Starting realtime feed test against %s (%d clients, %v)", *host, *clients, *duration)

	token := ""
	if !*guest {
		var err error
		token, err = login(*host, *email, *password)
		if err != nil {
			log.Fatalf("login failed: %v", err)
		}
		log.Printf("logged in as %s", *email)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < *clients; i++ {
		wg.Add(1)
		go runClient(*host, token, stop, &wg)
		time.Sleep(25 * time.Millisecond)
	}

	select {
	case <-time.After(*duration):
		log.Println("test duration reached")
	case <-interrupt:
		log.Println("interrupted")
	}

	close(stop)
	wg.Wait()
	printStats()
}

func login(host, email, password string) (string, error) {
	payload, _ := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	resp, err := http.Post(fmt.Sprintf("http://%s/api/auth/login", host),
		"application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login failed with status %d", resp.StatusCode)
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	return result.Token, nil
}

func runClient(host, token string, stop <-chan struct{}, wg *sync.WaitGroup) {
	defer wg.Done()
	atomic.AddInt64(&stats.attempted, 1)

	u := url.URL{Scheme: "ws", Host: host, Path: "/api/ws"}
	if token != "" {
		u.RawQuery = "token=" + token
	}

	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		atomic.AddInt64(&stats.failed, 1)
		return
	}
	if resp != nil && resp.Body != nil {
		defer func() { _ = resp.Body.Close() }()
	}
	defer func() { _ = conn.Close() }()

	atomic.AddInt64(&stats.connected, 1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			atomic.AddInt64(&stats.received, 1)

			var evt struct {
				Type string `json:"type"`
			}
			if err := json.Unmarshal(data, &evt); err == nil && evt.Type != "" {
				stats.mu.Lock()
				stats.byType[evt.Type]++
				stats.mu.Unlock()
			}
		}
	}()

	select {
	case <-stop:
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		select {
		case <-done:
		case <-time.After(time.Second):
		}
	case <-done:
	}
}

func printStats() {
	log.Println("Results")
	log.Println("=======")
	log.Printf("channels attempted: %d", atomic.LoadInt64(&stats.attempted))
	log.Printf("channels connected: %d", atomic.LoadInt64(&stats.connected))
	log.Printf("channels failed:    %d", atomic.LoadInt64(&stats.failed))
	log.Printf("events received:    %d", atomic.LoadInt64(&stats.received))

	stats.mu.Lock()
	defer stats.mu.Unlock()
	types := make([]string, 0, len(stats.byType))
	for name := range stats.byType {
		types = append(types, name)
	}
	sort.Strings(types)
	for _, name := range types {
		log.Printf("  %-24s %d", name, stats.byType[name])
	}
}
