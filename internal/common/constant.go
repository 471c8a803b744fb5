package common

// SessionCookieName is the cookie carrying the signed session.
const SessionCookieName = "__session"

// GlobalMessageKey is the flash key for the one-shot notification shown
// after a mutation.
const GlobalMessageKey = "globalMessage"

// UserSessionKey is the session key holding the authenticated user id.
const UserSessionKey = "userId"
