package container

// ServiceID identifies a core service binding.
type ServiceID uint8

const (
	Auth ServiceID = iota + 1
	Cache
	Config
	Encrypter
	Hash
	Log
	Queue
	Redis
	Router
	Session
	URL
	Validator
	Metrics
	JWT
	Throttle
	Events
)

var serviceNames = map[ServiceID]string{
	Auth:      "auth",
	Cache:     "cache",
	Config:    "config",
	Encrypter: "encrypter",
	Hash:      "hash",
	Log:       "log",
	Queue:     "queue",
	Redis:     "redis",
	Router:    "router",
	Session:   "session",
	URL:       "url",
	Validator: "validator",
	Metrics:   "metrics",
	JWT:       "jwt",
	Throttle:  "throttle",
	Events:    "events",
}

// String returns the binding name ("auth", "cache", ...).
func (id ServiceID) String() string {
	if name, ok := serviceNames[id]; ok {
		return name
	}
	return "unknown"
}

// ParseServiceID maps a binding name back to its ServiceID.
func ParseServiceID(name string) (ServiceID, bool) {
	for id, n := range serviceNames {
		if n == name {
			return id, true
		}
	}
	return 0, false
}
