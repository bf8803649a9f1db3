package metadata

import (
	"encoding/json"
	"testing"
)

func FuzzAPIResponseToDetails(f *testing.F) {
	seeds := []string{
		`{"title":"Heat","director":"Michael Mann","actors":["Al Pacino"]}`,
		`{"director":"","country":null}`,
		`{"actors":[""," ",null]}`,
		`{}`,
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		var payload apiResponse
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return
		}
		details := payload.toDetails()
		for _, a := range details.Actors {
			if a == "" {
				t.Fatalf("blank actor survived normalization")
			}
		}
		if details.Director != nil && *details.Director == "" {
			t.Fatalf("blank director survived normalization")
		}
	})
}
