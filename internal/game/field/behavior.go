package field

// Class is a pluggable field behavior. A Type names its class in config and
// delegates every instance hook to it.
//
// Instance hooks run with the zone lock held. They may use the Instance and
// its Zone accessors but must not call Engine methods.
type Class interface {
	// LoadTypeConfig parses the class-specific keys of a type's config section.
	// The returned value is stored on the Type (see TypeProperties).
	LoadTypeConfig(zone, section string, cfg ConfigSource) any
	// UnloadTypeConfig releases what LoadTypeConfig returned.
	UnloadTypeConfig(zone string, props any)

	OnInstanceCreated(inst *Instance)
	OnInstanceTick(inst *Instance)
	OnInstanceDestroyed(inst *Instance)
}

// BaseClass implements every Class hook as a no-op. Embed it to override
// only the hooks a behavior needs.
type BaseClass struct{}

func (BaseClass) LoadTypeConfig(string, string, ConfigSource) any { return nil }
func (BaseClass) UnloadTypeConfig(string, any) {}
func (BaseClass) OnInstanceCreated(*Instance) {}
func (BaseClass) OnInstanceTick(*Instance) {}
func (BaseClass) OnInstanceDestroyed(*Instance) {}

// TypeProperties returns the class-specific properties of t as T.
func TypeProperties[T any](t *Type) (T, bool) {
	v, ok := t.props.(T)
	return v, ok
}

// InstanceData returns the behavior scratch data of inst as T.
func InstanceData[T any](inst *Instance) (T, bool) {
	v, ok := inst.data.(T)
	return v, ok
}
