package pages

import "time"

// Channel is a social-media channel an account can authorize.
type Channel string

const (
	ChannelFacebook Channel = "facebook"
)

// PageLink maps a platform page to the local account that connected it.
// The page id is unique across the system; a link always resolves to exactly
// one account through its connection.
type PageLink struct {
	ID              int64     `json:"id"`
	PageID          string    `json:"page_id"`
	PageAccessToken string    `json:"-"`
	PageName        string    `json:"page_name"`
	TokenExpiresAt  time.Time `json:"token_expires_at"`
	ConnectionID    int64     `json:"connection_id"`
	AccountID       int64     `json:"account_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// SocialConnection is one account's authorization state for one channel.
// Absence means the account never authorized that channel.
type SocialConnection struct {
	ID              int64     `json:"id"`
	AccountID       int64     `json:"account_id"`
	Channel         Channel   `json:"channel"`
	UserAccessToken string    `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
}

// PageSelection is one page the account chose to connect.
type PageSelection struct {
	ID          string `json:"id"`
	AccessToken string `json:"access_token"`
	Name        string `json:"name"`
}
