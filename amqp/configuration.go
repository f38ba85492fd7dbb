package amqp

import (
	"net/url"
	"strconv"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Configuration struct {
	Host        string `mapstructure:"host" json:"host"`
	Port        int    `mapstructure:"port" json:"port"`
	Username    string `mapstructure:"username" json:"username"`
	Password    string `mapstructure:"password" json:"password"`
	VirtualHost string `mapstructure:"virtualHost" json:"virtualHost"`
	Exchange    string `mapstructure:"exchange" json:"exchange"`
	Queue       string `mapstructure:"queue" json:"queue"`
}

func connectionUrl(settings Configuration) string {
	if settings.Username == "" {
		settings.Username = "guest"
	}
	if settings.Password == "" {
		settings.Password = "guest"
	}
	if settings.Host == "" {
		settings.Host = "localhost"
	}
	if settings.Port == 0 {
		settings.Port = 5672
	}
	return "amqp://" + url.UserPassword(settings.Username, settings.Password).String() + "@" +
		settings.Host + ":" + strconv.Itoa(settings.Port) + "/" + url.PathEscape(settings.VirtualHost)
}

func exchangeName(settings Configuration) string {
	if settings.Exchange == "" {
		return "hotel.booking"
	}
	return settings.Exchange
}

func declareExchange(ch *amqp.Channel, name string) error {
	return ch.ExchangeDeclare(
		name,
		"topic", // kind (routed by <aggregate>.<event>)
		true,    // durable (survive broker restarts)
		false,   // auto-delete (don't delete when no consumers are connected)
		false,   // internal
		false,   // no-wait
		nil,     // arguments
	)
}

func declareQueue(ch *amqp.Channel, name string) (amqp.Queue, error) {
	return ch.QueueDeclare(
		name,
		true,  // durable (survive broker restarts)
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
}

func bindQueue(ch *amqp.Channel, exchange, queue string) error {
	return ch.QueueBind(
		queue,    // queue name
		"#",      // routing key (every booking event)
		exchange, // exchange name
		false,    // no-wait
		nil,      // arguments
	)
}
