package srcom

import "encoding/json"

// GameInfo holds the metadata kept for one game.
type GameInfo struct {
	Name        string
	ReleaseYear int // 0 when unknown
}

// Category is one run category of a game.
type Category struct {
	ID   string
	Name string
}

// LeaderboardEntry is one ranked run in a category's top-100 snapshot.
// Slice order is the rank: index 0 is the world record.
type LeaderboardEntry struct {
	RunID string
	Time  float64 // seconds
}

// RunData is one run as returned by the runs listing. CategoryName and
// PlayerName start out as placeholders and are backfilled by the pipeline
// once the category table and player names have been resolved.
type RunData struct {
	ID           string
	CategoryID   string
	CategoryName string
	PlayerID     string
	PlayerName   string
	Submitted    string // RFC3339 timestamp, empty when absent
	Platform     string
	Emulated     bool
	VideoLink    string
	Comment      string
	TimeSeconds  float64
}

// envelope is the standard speedrun.com response wrapper.
type envelope struct {
	Data       json.RawMessage `json:"data"`
	Pagination pagination      `json:"pagination"`
}

type pagination struct {
	Offset int `json:"offset"`
	Max    int `json:"max"`
	Size   int `json:"size"`
}

type gameData struct {
	Names struct {
		International string `json:"international"`
	} `json:"names"`
	Released int `json:"released"`
}

type categoryData struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type userData struct {
	Names struct {
		International string `json:"international"`
	} `json:"names"`
}

type runTimes struct {
	PrimaryT float64 `json:"primary_t"`
}

type leaderboardData struct {
	Runs []struct {
		Run struct {
			ID    string   `json:"id"`
			Times runTimes `json:"times"`
		} `json:"run"`
	} `json:"runs"`
}

// categoryRef tolerates both shapes the API uses for a run's category field:
// a bare id string, or an embedded object when the request carried embeds.
type categoryRef string

func (c *categoryRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = categoryRef(s)
		return nil
	}

	var embedded struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &embedded); err == nil && embedded.Data.ID != "" {
		*c = categoryRef(embedded.Data.ID)
		return nil
	}

	*c = "unknown"
	return nil
}

// playerRef is one entry of a run's players array. Registered accounts carry
// an id, guests only a name.
type playerRef struct {
	Rel  string `json:"rel"`
	ID   string `json:"id"`
	Name string `json:"name"`
}

// flexString decodes a JSON string and silently ignores any other shape,
// leaving the value empty.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
	}
	return nil
}

// apiRun is the wire shape of one run in the runs listing.
type apiRun struct {
	ID        string      `json:"id"`
	Category  categoryRef `json:"category"`
	Players   []playerRef `json:"players"`
	Submitted string      `json:"submitted"`
	System    struct {
		Platform flexString `json:"platform"`
		Emulated bool       `json:"emulated"`
	} `json:"system"`
	Videos *struct {
		Links []struct {
			URI string `json:"uri"`
		} `json:"links"`
	} `json:"videos"`
	Comment string   `json:"comment"`
	Times   runTimes `json:"times"`
}

// toRunData converts the wire shape into a RunData, applying the
// missing-field defaults in one place.
func (r apiRun) toRunData() RunData {
	playerID := "unknown"
	if len(r.Players) > 0 {
		switch {
		case r.Players[0].ID != "":
			playerID = r.Players[0].ID
		case r.Players[0].Name != "":
			playerID = r.Players[0].Name
		}
	}

	categoryID := string(r.Category)
	if categoryID == "" {
		categoryID = "unknown"
	}

	platform := string(r.System.Platform)
	if platform == "" {
		platform = "Unknown"
	}

	videoLink := ""
	if r.Videos != nil && len(r.Videos.Links) > 0 {
		videoLink = r.Videos.Links[0].URI
	}

	return RunData{
		ID:           r.ID,
		CategoryID:   categoryID,
		CategoryName: "Unknown",
		PlayerID:     playerID,
		PlayerName:   playerID,
		Submitted:    r.Submitted,
		Platform:     platform,
		Emulated:     r.System.Emulated,
		VideoLink:    videoLink,
		Comment:      r.Comment,
		TimeSeconds:  r.Times.PrimaryT,
	}
}
