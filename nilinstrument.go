package staging

type nilInstrument struct{}

func NewNilInstrument() Instrument {
	return &nilInstrument{}
}

func (self *nilInstrument) NewInstance(_ string) InstrumentInstance {
	return &NilInstrumentInstance{}
}

type NilInstrumentInstance struct{}

func (n NilInstrumentInstance) Allocate(sz int) {}

func (n NilInstrumentInstance) Reuse(sz int) {}

func (n NilInstrumentInstance) Retain() {}

func (n NilInstrumentInstance) Release() {}

func (n NilInstrumentInstance) Evict(sz int) {}

func (n NilInstrumentInstance) GcComplete(free, used int) {}

func (n NilInstrumentInstance) Reset() {}

func (n NilInstrumentInstance) Shutdown() {}
