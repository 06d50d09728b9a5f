package proto

// TokenHeader carries the session token on authenticated requests.
const TokenHeader = "x-access-tokens"

const (
	PathAuthenticate = "/authenticate"
	PathRegister     = "/register"
	PathGames        = "/games"
)

// Credentials identify a player. They are fixed for the lifetime of a session.
type Credentials struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by a successful authentication.
type AuthResponse struct {
	Token string `json:"token"`
}

// RegisterResponse confirms a registration.
type RegisterResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
}

// NewGameRequest asks the server to create a game.
type NewGameRequest struct {
	Rows    int `json:"rows" binding:"required"`
	Columns int `json:"columns" binding:"required"`
	Mines   int `json:"mines" binding:"required"`
}

// CellRequest addresses one cell of the current game.
type CellRequest struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// GamesResponse wraps the list of a player's games.
type GamesResponse struct {
	Games []GameSummary `json:"games"`
}

// ErrorResponse is the body of every non-200 response.
type ErrorResponse struct {
	Message string `json:"message"`
}
