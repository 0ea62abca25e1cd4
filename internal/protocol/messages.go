package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string            `json:"type"`
	ProtocolVersion string            `json:"protocol_version"`
	PlayerName      string            `json:"player_name"`
	Capabilities    HelloCapabilities `json:"capabilities"`
	Auth            *HelloAuth        `json:"auth,omitempty"`
}

type HelloCapabilities struct {
	MaxQueue int  `json:"max_queue,omitempty"`
	NoState  bool `json:"no_state,omitempty"`
}

type HelloAuth struct {
	Token string `json:"token,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string         `json:"type"`
	ProtocolVersion string         `json:"protocol_version"`
	SessionID       string         `json:"session_id"`
	ResumeToken     string         `json:"resume_token"`
	WorldParams     WorldParams    `json:"world_params"`
	Catalogs        CatalogDigests `json:"catalogs"`
}

type WorldParams struct {
	WorldID         string  `json:"world_id"`
	TickRateHz      int     `json:"tick_rate_hz"`
	WorldSize       float64 `json:"world_size"`
	CellSize        float64 `json:"cell_size"`
	CrewCap         int     `json:"crew_cap"`
	StateEveryTicks int     `json:"state_every_ticks"`
	Seed            int64   `json:"seed"`
}

type CatalogDigests struct {
	BuildingsDigest string `json:"buildings_digest"`
	CropsDigest     string `json:"crops_digest"`
	AnimalsDigest   string `json:"animals_digest"`
	NodesDigest     string `json:"nodes_digest"`
	TuningDigest    string `json:"tuning_digest,omitempty"`
}

// CATALOG (server -> client): a chunk of catalog data.
// Each catalog is sent as a single part for now.
type CatalogMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	Name            string      `json:"name"`   // e.g. "buildings"
	Digest          string      `json:"digest"` // sha256 hex
	Part            int         `json:"part"`
	TotalParts      int         `json:"total_parts"`
	Data            interface{} `json:"data"`
}

type AckMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	AckFor          string `json:"ack_for"`
	Accepted        bool   `json:"accepted"`
	Code            string `json:"code,omitempty"`
	Message         string `json:"message,omitempty"`
	ServerTick      uint64 `json:"server_tick,omitempty"`
}

// NOTIFY (server -> client)
type NotifyMsg struct {
	Type            string            `json:"type"`
	ProtocolVersion string            `json:"protocol_version"`
	Tick            uint64            `json:"tick"`
	Kind            string            `json:"kind"`
	Message         string            `json:"message"`
	Fields          map[string]string `json:"fields,omitempty"`
}
