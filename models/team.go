package models

// Team is the summary of a club as embedded in match reports.
type Team struct {
	ID             int    `json:"id" db:"id"`
	SaveGameID     int    `json:"-" db:"save_game_id"`
	Name           string `json:"name" db:"name"`
	PrimaryColor   string `json:"primaryColor" db:"primary_color"`
	SecondaryColor string `json:"secondaryColor" db:"secondary_color"`
}
