package storage

import (
	"sort"

	"github.com/mcoot/bullscows/internal/model"
)

// SortRooms orders rooms by creation time, then id
func SortRooms(rooms []*model.Room) {
	sort.SliceStable(rooms, func(i, j int) bool {
		if rooms[i].CreatedAt.Equal(rooms[j].CreatedAt) {
			return rooms[i].ID < rooms[j].ID
		}
		return rooms[i].CreatedAt.Before(rooms[j].CreatedAt)
	})
}
