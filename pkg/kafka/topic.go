package kafka

// TopicPrefix is the namespace of every storefront topic.
const TopicPrefix = "storefront"

// Topic builds a fully-qualified topic name such as "storefront.cart.updated".
func Topic(domain, action string) string {
	return TopicPrefix + "." + domain + "." + action
}
