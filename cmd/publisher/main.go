package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/google/uuid"
	stan "github.com/nats-io/stan.go"
)

// Утилита для ручного прогона: читает событие взаимодействия из stdin и
// публикует его в inbound-subject сервиса.
func main() {
	clusterID := getenv("STAN_CLUSTER_ID", "astro-cluster")
	clientID := getenv("STAN_PUB_ID", "astro-publisher")
	natsURL := getenv("NATS_URL", "nats://localhost:4223")
	subject := getenv("STAN_SUBJECT_IN", "chat.interactions")

	sc, err := stan.Connect(clusterID, clientID, stan.NatsURL(natsURL))
	if err != nil {
		log.Fatalf("stan connect: %v", err)
	}
	defer sc.Close()

	var payload map[string]any
	dec := json.NewDecoder(os.Stdin)
	if err := dec.Decode(&payload); err != nil {
		log.Fatalf("read json from stdin: %v", err)
	}
	if _, ok := payload["event_id"]; !ok {
		payload["event_id"] = uuid.NewString()
	}
	b, err := json.Marshal(payload)
	if err != nil {
		log.Fatalf("marshal: %v", err)
	}
	if err := sc.Publish(subject, b); err != nil {
		log.Fatalf("publish: %v", err)
	}
	log.Printf("published %d bytes to %s", len(b), subject)
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
