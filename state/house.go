package state

import "strings"

const ReportHeader = "***** Отчет *****"

// SmartHouse is the ordered list of rooms and the root of every report.
// Room names are not required to be unique.
type SmartHouse struct {
	rooms []*Room
}

func NewSmartHouse() *SmartHouse {
	return &SmartHouse{}
}

func (h *SmartHouse) AddRoom(room *Room) *SmartHouse {
	h.rooms = append(h.rooms, room)
	return h
}

func (h *SmartHouse) Rooms() []*Room {
	rooms := make([]*Room, len(h.rooms))
	copy(rooms, h.rooms)
	return rooms
}

func (h *SmartHouse) Info() string {
	var sb strings.Builder
	sb.WriteString(ReportHeader)
	sb.WriteByte('\n')
	for _, room := range h.rooms {
		sb.WriteString(room.Info())
	}
	return sb.String()
}
