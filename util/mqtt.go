package util

import (
	"fmt"

	MQTT "github.com/eclipse/paho.mqtt.golang"
	"github.com/gosimple/slug"

	"github.com/elijahnyp/smarthouse/state"
)

var Client MQTT.Client

var connectHandlers map[string]func(MQTT.Client)

var connectHandler MQTT.OnConnectHandler = func(client MQTT.Client) {
	Logger.Info().Msg("Connected")
	client.Publish(OnlineTopic(), 0, true, "online").Wait()
	for _, handler := range connectHandlers {
		handler(client)
	}
}

var connectLostHandler MQTT.ConnectionLostHandler = func(client MQTT.Client, err error) {
	Logger.Info().Msgf("Connect lost: %v", err)
}

func RegisterMQTTConnectHook(name string, handler func(MQTT.Client)) {
	if connectHandlers == nil {
		connectHandlers = make(map[string]func(client MQTT.Client))
	}
	if handler == nil {
		delete(connectHandlers, name)
	} else {
		connectHandlers[name] = handler
	}
}

func OnlineTopic() string {
	return Config.GetString("mqtt.report_topic") + "/online"
}

func MqttInit() error {
	opts := MQTT.NewClientOptions()
	opts.AddBroker(Config.GetString("mqtt.broker_uri"))
	opts.SetClientID(Config.GetString("mqtt.id_base") + "_" + GetRandString(6))
	opts.SetUsername(Config.GetString("mqtt.username"))
	opts.SetPassword(Config.GetString("mqtt.password"))
	opts.SetCleanSession(Config.GetBool("mqtt.cleansess"))
	opts.SetAutoReconnect(true)
	opts.SetWill(OnlineTopic(), "offline", 0, true)
	opts.OnConnectionLost = connectLostHandler
	opts.OnConnect = connectHandler

	if Client != nil {
		Logger.Debug().Msg("Client exists - destroying")
		if Client.IsConnected() {
			Client.Disconnect(1000)
		}
		Client = nil
	}

	Client = MQTT.NewClient(opts)

	if token := Client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return nil
}

// TopicSlug turns a room name into an ASCII id made of [a-z0-9-],
// transliterating non-Latin letters. Names with nothing usable become "room".
func TopicSlug(name string) string {
	if id := slug.Make(name); id != "" {
		return id
	}
	return "room"
}

// RoomIDs gives each room an id that is unique within the list, usable as
// an MQTT topic level and as a Home Assistant object id. Repeated names
// get _2, _3 and so on, in room order.
func RoomIDs(rooms []*state.Room) []string {
	ids := make([]string, len(rooms))
	used := make(map[string]bool, len(rooms))
	for i, room := range rooms {
		base := TopicSlug(room.Name())
		id := base
		for n := 2; used[id]; n++ {
			id = fmt.Sprintf("%s_%d", base, n)
		}
		used[id] = true
		ids[i] = id
	}
	return ids
}

// PublishReport sends the full house report to topic and each room report
// to topic/<room id>, retained.
func PublishReport(client MQTT.Client, topic string, house *state.SmartHouse) error {
	if token := client.Publish(topic, 0, true, house.Info()); token.Wait() && token.Error() != nil {
		return fmt.Errorf("publish %s: %w", topic, token.Error())
	}
	rooms := house.Rooms()
	for i, id := range RoomIDs(rooms) {
		roomTopic := topic + "/" + id
		if token := client.Publish(roomTopic, 0, true, rooms[i].Info()); token.Wait() && token.Error() != nil {
			return fmt.Errorf("publish %s: %w", roomTopic, token.Error())
		}
	}
	Logger.Debug().Msgf("report published to %s", topic)
	return nil
}
