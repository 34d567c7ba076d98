package apimodel

type Status struct {
	Version string       `json:"version"`
	Screen  ScreenStatus `json:"screen"`
	Flush   FlushStatus  `json:"flush"`
	Clock   ClockStatus  `json:"clock"`
	Icon    IconStatus   `json:"icon"`
}

type ScreenStatus struct {
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	BufferCapacity int    `json:"buffer_capacity"`
	Panel          string `json:"panel"`
}

type FlushStatus struct {
	Flushed  uint64 `json:"flushed"`
	Dropped  uint64 `json:"dropped"`
	Rejected uint64 `json:"rejected"`
	Pixels   uint64 `json:"pixels"`
}

type ClockStatus struct {
	TickPeriodMs int64  `json:"tick_period_ms"`
	NowMs        uint64 `json:"now_ms"`
}

type IconStatus struct {
	Toggles uint32 `json:"toggles"`
	Nodes   int    `json:"nodes"`
	Current string `json:"current"`
}
