package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"cloud.google.com/go/pubsub"
)

var (
	topicID        = flag.String("topic", "accountd.AuditRecords", "audit topic to create")
	subscriptionID = flag.String("subscription", "", "optional subscription to create on the topic")
)

// Creates the audit topic (and optionally a subscription) on the pubsub
// emulator so the remote audit sink has somewhere to publish. Idempotent.
func main() {
	flag.Parse()

	projectID := os.Getenv("PUBSUB_PROJECT_ID")
	if projectID == "" {
		projectID = "accountd"
	}

	ctx := context.Background()
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		log.Panicf("unable to create client to project %q: %v", projectID, err)
	}
	defer client.Close()

	topic, err := client.CreateTopic(ctx, *topicID)
	if err != nil && !strings.Contains(err.Error(), "Topic already exists") {
		log.Panicf("unable to create topic %s for project %s: %v", *topicID, projectID, err)
	} else if err != nil {
		topic = client.Topic(*topicID)
	}
	log.Printf("topic ready: [%s, %s]", projectID, *topicID)

	if *subscriptionID == "" {
		return
	}
	_, err = client.CreateSubscription(ctx, *subscriptionID, pubsub.SubscriptionConfig{Topic: topic})
	if err != nil && !strings.Contains(err.Error(), "Subscription already exists") {
		log.Panicf("unable to create subscription %s on topic %s for project %s: %v", *subscriptionID, *topicID, projectID, err)
	}
	log.Printf("subscription ready: [%s, %s, %s]", projectID, *topicID, *subscriptionID)
}
