package util

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/elijahnyp/smarthouse/state"
)

func TestConstructHAAdvertisement(t *testing.T) {
	resetConfig()
	setDefaults()

	name := "Big Bedroom"
	stateTopic := "smarthouse/report/big-bedroom"

	advertisement := ConstructHAAdvertisement(name, "big-bedroom", stateTopic)

	if advertisement.Name != name {
		t.Errorf("Name = %s, expected %s", advertisement.Name, name)
	}
	if advertisement.StateTopic != stateTopic {
		t.Errorf("StateTopic = %s, expected %s", advertisement.StateTopic, stateTopic)
	}
	if advertisement.Platform != "sensor" {
		t.Errorf("Platform = %s, expected 'sensor'", advertisement.Platform)
	}
	if advertisement.UniqueID != "smarthouse_room-big-bedroom" {
		t.Errorf("UniqueID = %s, expected smarthouse_room-big-bedroom", advertisement.UniqueID)
	}
	if len(advertisement.HAAvdvertisementAvailability) != 1 {
		t.Fatalf("Expected 1 availability item, got %d", len(advertisement.HAAvdvertisementAvailability))
	}
	if advertisement.HAAvdvertisementAvailability[0].Topic != "smarthouse/report/online" {
		t.Errorf("Availability topic = %s, expected smarthouse/report/online", advertisement.HAAvdvertisementAvailability[0].Topic)
	}
}

func TestHAAdvertisement_ToJson(t *testing.T) {
	resetConfig()
	setDefaults()

	data := ConstructHAAdvertisement("Кухня", "kitchen", "smarthouse/report/kitchen").ToJson()

	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(data), &decoded); err != nil {
		t.Fatalf("ToJson() produced invalid JSON: %v", err)
	}
	for _, field := range []string{"availability", "device", "uniq_id", "name", "state_topic", "platform"} {
		if _, ok := decoded[field]; !ok {
			t.Errorf("JSON missing field %s", field)
		}
	}
	if decoded["name"] != "Кухня" {
		t.Errorf("name = %v, expected Кухня", decoded["name"])
	}
}

func TestAdvertiseHA(t *testing.T) {
	resetConfig()
	setDefaults()

	client := &MockMQTTClient{}
	house := testHouse()

	if err := AdvertiseHA(house.Rooms(), client, "smarthouse/report"); err != nil {
		t.Fatalf("AdvertiseHA() returned error: %v", err)
	}

	calls := client.calls()
	if len(calls) != 2 {
		t.Fatalf("Expected 2 advertisements, got %d", len(calls))
	}
	ids := RoomIDs(house.Rooms())
	if calls[0].Topic != "homeassistant/sensor/"+ids[0]+"/report/config" {
		t.Errorf("first config topic = %s", calls[0].Topic)
	}

	var kitchen HAAdvertisement
	payload, _ := calls[0].Payload.(string)
	if err := json.Unmarshal([]byte(payload), &kitchen); err != nil {
		t.Fatalf("invalid advertisement JSON: %v", err)
	}
	if kitchen.Name != "Кухня" {
		t.Errorf("Name = %s, expected the original room name", kitchen.Name)
	}
	if !objectIDPattern.MatchString(strings.TrimPrefix(kitchen.UniqueID, "smarthouse_room-")) {
		t.Errorf("UniqueID = %s, not ASCII-safe", kitchen.UniqueID)
	}
	if kitchen.StateTopic != "smarthouse/report/"+ids[0] {
		t.Errorf("StateTopic = %s, expected the topic PublishReport uses", kitchen.StateTopic)
	}

	payload, _ = calls[1].Payload.(string)
	if !strings.Contains(payload, `"state_topic":"smarthouse/report/big-bedroom"`) {
		t.Errorf("second advertisement payload = %s, expected bedroom state topic", payload)
	}
}

func TestAdvertiseHA_DuplicateRoomNames(t *testing.T) {
	resetConfig()
	setDefaults()

	client := &MockMQTTClient{}
	rooms := []*state.Room{state.NewRoom("Кухня"), state.NewRoom("Кухня")}

	if err := AdvertiseHA(rooms, client, "smarthouse/report"); err != nil {
		t.Fatalf("AdvertiseHA() returned error: %v", err)
	}

	calls := client.calls()
	if len(calls) != 2 {
		t.Fatalf("Expected 2 advertisements, got %d", len(calls))
	}
	if calls[0].Topic == calls[1].Topic {
		t.Errorf("both rooms advertised on %s", calls[0].Topic)
	}

	uniqueIDs := make(map[string]bool)
	for _, c := range calls {
		var ad HAAdvertisement
		payload, _ := c.Payload.(string)
		if err := json.Unmarshal([]byte(payload), &ad); err != nil {
			t.Fatalf("invalid advertisement JSON: %v", err)
		}
		uniqueIDs[ad.UniqueID] = true
	}
	if len(uniqueIDs) != 2 {
		t.Errorf("Expected 2 distinct unique ids, got %v", uniqueIDs)
	}
}
