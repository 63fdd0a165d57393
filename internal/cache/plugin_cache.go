package cache

import "time"

// PluginCache is a namespace-bound view of a Manager, handed to a plugin
// so it never has to know (or collide with) another plugin's namespace.
type PluginCache struct {
	manager *Manager
	ns      string
}

// GetPluginCache binds pluginName to its own namespace.
func (m *Manager) GetPluginCache(pluginName string) *PluginCache {
	return &PluginCache{manager: m, ns: "plugin:" + pluginName}
}

func (c *PluginCache) Get(key string) (any, bool)   { return c.manager.Get(c.ns, key) }
func (c *PluginCache) Has(key string) bool          { return c.manager.Has(c.ns, key) }
func (c *PluginCache) Delete(key string) error      { return c.manager.Delete(c.ns, key) }
func (c *PluginCache) Clear() error                 { return c.manager.Clear(c.ns) }
func (c *PluginCache) Keys() []string                { return c.manager.Keys(c.ns) }
func (c *PluginCache) Size() int                     { return c.manager.Size(c.ns) }

// Set stores value under key. An explicit ttl overrides the Manager's
// default.
func (c *PluginCache) Set(key string, value any, ttl ...time.Duration) error {
	return c.manager.Set(c.ns, key, value, ttl...)
}
