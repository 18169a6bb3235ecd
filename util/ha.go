package util

import (
	"encoding/json"
	"fmt"

	MQTT "github.com/eclipse/paho.mqtt.golang"

	"github.com/elijahnyp/smarthouse/state"
)

type HAAvdvertisementAvailability struct {
	Topic               string `json:"topic"`
	PayloadAvailable    string `json:"payload_available"`
	PayloadNotAvailable string `json:"payload_not_available"`
}

type HADeviceSpec struct {
	Name        string   `json:"name"`
	Identifiers []string `json:"ids"`
}

type HAAdvertisement struct { //nolint:govet // struct layout optimized for JSON field order
	HAAvdvertisementAvailability []HAAvdvertisementAvailability `json:"availability"`
	Device                       HADeviceSpec                   `json:"device"`
	UniqueID                     string                         `json:"uniq_id"`
	Name                         string                         `json:"name"`
	StateTopic                   string                         `json:"state_topic"`
	ValueTemplate                string                         `json:"value_template"`
	Icon                         string                         `json:"icon"`
	Platform                     string                         `json:"platform"`
	Qos                          int                            `json:"qos"`
}

func (ha HAAdvertisement) ToJson() string {
	data, err := json.Marshal(ha)
	if err != nil {
		Logger.Error().Msgf("Error marshalling HAAdvertisement: %v", err)
		return ""
	}
	return string(data)
}

// ConstructHAAdvertisement describes a room report as a text sensor.
// objectID must be ASCII; name may be anything.
// Home Assistant caps states at 255 characters.
func ConstructHAAdvertisement(name, objectID, stateTopic string) HAAdvertisement {
	return HAAdvertisement{
		Name:          name,
		StateTopic:    stateTopic,
		ValueTemplate: "{{ value | truncate(250) }}",
		Icon:          "mdi:home-analytics",
		HAAvdvertisementAvailability: []HAAvdvertisementAvailability{
			{
				Topic:               OnlineTopic(),
				PayloadAvailable:    "online",
				PayloadNotAvailable: "offline",
			},
		},
		Qos:      0,
		UniqueID: "smarthouse_room-" + objectID,
		Platform: "sensor",
		Device: HADeviceSpec{
			Name:        "smarthouse",
			Identifiers: []string{"smarthouse"},
		},
	}
}

// AdvertiseHA publishes one discovery document per room. Room ids match
// the topics PublishReport uses for the same room list.
func AdvertiseHA(rooms []*state.Room, client MQTT.Client, baseTopic string) error {
	for i, id := range RoomIDs(rooms) {
		ha := ConstructHAAdvertisement(rooms[i].Name(), id, baseTopic+"/"+id)
		configTopic := "homeassistant/sensor/" + id + "/report/config"
		if token := client.Publish(configTopic, 0, true, ha.ToJson()); token.Wait() && token.Error() != nil {
			return fmt.Errorf("advertise %s: %w", rooms[i].Name(), token.Error())
		}
	}
	return nil
}
