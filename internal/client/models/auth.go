package models

// LoginResult is the body of a successful login.
type LoginResult struct {
	AccessToken string   `json:"access_token"`
	Faculty     *Faculty `json:"faculty"`
}

type UsernameAvailability struct {
	Username  string `json:"username"`
	Available bool   `json:"available"`
}
