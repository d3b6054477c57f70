package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports pipeline and cache events to a logger at debug level.
// The CLI registers it when --verbose is set.
type LogHooks struct {
	Logger *log.Logger
}

var (
	_ PipelineHooks = LogHooks{}
	_ CacheHooks    = LogHooks{}
	_ ServerHooks   = LogHooks{}
)

func (h LogHooks) OnDeserializeStart(_ context.Context, size int) {
	h.Logger.Debug("deserialize", "bytes", size)
}

func (h LogHooks) OnDeserializeComplete(_ context.Context, s DeserializeStats, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("deserialize failed", "err", err, "took", d)
		return
	}
	h.Logger.Debug("deserialized", "nodes", s.Nodes, "refs", s.References, "unresolved", s.Unresolved, "took", d)
}

func (h LogHooks) OnProjectStart(_ context.Context, kind string, nodes int) {
	h.Logger.Debug("project", "kind", kind, "nodes", nodes)
}

func (h LogHooks) OnProjectComplete(_ context.Context, kind string, d time.Duration, err error) {
	h.Logger.Debug("projected", "kind", kind, "took", d, "err", err)
}

func (h LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render", "formats", formats)
}

func (h LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.Logger.Debug("rendered", "formats", formats, "took", d, "err", err)
}

func (h LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h LogHooks) OnRequest(_ context.Context, method, route string) {
	h.Logger.Debug("request", "method", method, "route", route)
}

func (h LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.Logger.Info("response", "method", method, "route", route, "status", status, "took", d)
}

func (h LogHooks) OnLiveMessage(_ context.Context, sessionID, kind string) {
	h.Logger.Debug("live frame", "session", sessionID, "kind", kind)
}
