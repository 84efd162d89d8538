package twitterapi

const defaultBaseURL = "https://api.twitterapi.io"

// endpoint names a provider operation and its REST location.
type endpoint struct {
	Name   string
	Method string
	Path   string
}

// endpoints maps operation names to their current provider paths.
var endpoints = map[string]endpoint{
	"AdvancedSearch": {Name: "AdvancedSearch", Method: "GET", Path: "/twitter/tweet/advanced_search"},
	"Followings":     {Name: "Followings", Method: "GET", Path: "/twitter/user/followings"},
	"Followers":      {Name: "Followers", Method: "GET", Path: "/twitter/user/followers"},
	"UserLogin":      {Name: "UserLogin", Method: "POST", Path: "/twitter/user_login_v2"},
	"CreateTweet":    {Name: "CreateTweet", Method: "POST", Path: "/twitter/create_tweet_v2"},
}

// kindEndpoint returns the paginated endpoint serving a result kind.
func kindEndpoint(kind ResultKind) endpoint {
	switch kind {
	case KindFollowings:
		return endpoints["Followings"]
	case KindFollowers:
		return endpoints["Followers"]
	default:
		return endpoints["AdvancedSearch"]
	}
}
