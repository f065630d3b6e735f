package kafka

import "fmt"

// TopicPrefix namespaces every topic produced by EstateHub services.
const TopicPrefix = "estatehub"

// Topic builds a fully qualified topic name from a domain and an action,
// e.g. Topic("offer", "accepted") == "estatehub.offer.accepted".
func Topic(domain, action string) string {
	return fmt.Sprintf("%s.%s.%s", TopicPrefix, domain, action)
}
