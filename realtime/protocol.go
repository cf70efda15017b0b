package realtime

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Server to client message types.
const (
	TypeMatchEvent       = "match-event"
	TypeStageChanged     = "stage-changed"
	TypeMatchdayAdvanced = "matchday-advanced"
)

// Client to server message types.
const (
	TypeJoinSave  = "join-save"
	TypeLeaveSave = "leave-save"
)

// Message is the envelope of every frame sent to clients.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	RoomID  string      `json:"room_id,omitempty"`
}

// SaveGameRoom names the broadcast room of a save game.
func SaveGameRoom(saveGameID int) string {
	return "save-" + strconv.Itoa(saveGameID)
}

type inboundFrame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type savePayload struct {
	SaveGameID json.RawMessage `json:"saveGameId"`
}

type command struct {
	join       bool
	saveGameID int
}

// parseCommand decodes a join-save or leave-save frame. ok is false for anything else,
// including frames whose save game id is missing or not a positive integer.
func parseCommand(data []byte) (cmd command, ok bool) {
	var frame inboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return command{}, false
	}
	switch frame.Type {
	case TypeJoinSave:
		cmd.join = true
	case TypeLeaveSave:
	default:
		return command{}, false
	}

	raw := bytes.TrimSpace(frame.Payload)
	if len(raw) > 0 && raw[0] == '{' {
		var p savePayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return command{}, false
		}
		raw = p.SaveGameID
	}
	id, ok := parseSaveGameID(raw)
	if !ok {
		return command{}, false
	}
	cmd.saveGameID = id
	return cmd, true
}

// parseSaveGameID accepts a JSON number or a numeric JSON string.
func parseSaveGameID(raw json.RawMessage) (int, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, false
	}
	var text string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, false
		}
		text = strings.TrimSpace(text)
	} else {
		text = string(raw)
	}
	id, err := strconv.Atoi(text)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
