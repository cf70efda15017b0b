package realtime

import "testing"

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name   string
		frame  string
		want   command
		wantOK bool
	}{
		{"join object", `{"type":"join-save","payload":{"saveGameId":7}}`, command{join: true, saveGameID: 7}, true},
		{"leave object", `{"type":"leave-save","payload":{"saveGameId":7}}`, command{saveGameID: 7}, true},
		{"bare number", `{"type":"join-save","payload":12}`, command{join: true, saveGameID: 12}, true},
		{"numeric string", `{"type":"join-save","payload":"12"}`, command{join: true, saveGameID: 12}, true},
		{"string inside object", `{"type":"join-save","payload":{"saveGameId":" 3 "}}`, command{join: true, saveGameID: 3}, true},
		{"zero id", `{"type":"join-save","payload":0}`, command{}, false},
		{"negative id", `{"type":"join-save","payload":{"saveGameId":-1}}`, command{}, false},
		{"fractional id", `{"type":"join-save","payload":1.5}`, command{}, false},
		{"text id", `{"type":"join-save","payload":"seven"}`, command{}, false},
		{"missing payload", `{"type":"join-save"}`, command{}, false},
		{"missing id", `{"type":"join-save","payload":{}}`, command{}, false},
		{"unknown type", `{"type":"subscribe","payload":7}`, command{}, false},
		{"not json", `join-save 7`, command{}, false},
		{"null payload", `{"type":"leave-save","payload":null}`, command{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseCommand([]byte(tt.frame))
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Fatalf("command = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSaveGameRoom(t *testing.T) {
	if got := SaveGameRoom(42); got != "save-42" {
		t.Fatalf("SaveGameRoom(42) = %q", got)
	}
}
