package models

// Cookie is the opaque resume token issued by the directory server. The
// client never interprets it; it is persisted verbatim and presented on
// reconnect so the server can replay only the changes the mirror has not
// yet consumed.
type Cookie []byte

// NoCookie is the sentinel returned by the cookie store when no cookie
// has ever been persisted. Presenting it to the server forces a full
// resynchronization.
var NoCookie Cookie

// IsZero reports whether the cookie is the "none" sentinel.
func (c Cookie) IsZero() bool {
	return len(c) == 0
}

func (c Cookie) String() string {
	return string(c)
}
