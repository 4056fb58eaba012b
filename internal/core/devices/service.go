package devices

// service is the shared DomainService implementation: a name, the claimed
// tags and the descriptor for each tag. Every device family is an instance
// of this with its own descriptor table.
type service struct {
	name  string
	descs map[Tag]*Descriptor
	tags  []Tag
}

// NewService builds a domain service from a tag-to-descriptor table.
func NewService(name string, descs map[Tag]*Descriptor) DomainService {
	tags := make([]Tag, 0, len(descs))
	for tag := range descs {
		tags = append(tags, tag)
	}
	return &service{name: name, descs: descs, tags: tags}
}

func (s *service) Name() string { return s.name }

func (s *service) Tags() []Tag { return s.tags }

func (s *service) Build(ec *EntryContext) []*Entity {
	desc := s.descs[ec.Entry.Type]
	if desc == nil {
		return nil
	}

	entities := make([]*Entity, 0, len(ec.Entry.Entities))
	for i, cfg := range ec.Entry.Entities {
		e, err := NewEntity(ec, desc, cfg, i)
		if err != nil {
			ec.Log.WithError(err).WithField("index", i).Error("Skipping entity with invalid config")
			continue
		}
		entities = append(entities, e)
	}
	return entities
}

// DefaultServices returns the six domain services covering all supported
// device types, grouped the way the device families are managed.
func DefaultServices() []DomainService {
	return []DomainService{
		NewService("lighting_control", map[Tag]*Descriptor{
			TagLight:  LightDescriptor(),
			TagSwitch: SwitchDescriptor(),
			TagCover:  CoverDescriptor(),
		}),
		NewService("climate_control", map[Tag]*Descriptor{
			TagClimate:     ClimateDescriptor(),
			TagHumidifier:  HumidifierDescriptor(),
			TagWaterHeater: WaterHeaterDescriptor(),
		}),
		NewService("appliance_control", map[Tag]*Descriptor{
			TagFan:         FanDescriptor(),
			TagAirPurifier: AirPurifierDescriptor(),
			TagVacuum:      VacuumDescriptor(),
		}),
		NewService("security_access", map[Tag]*Descriptor{
			TagLock:   LockDescriptor(),
			TagCamera: CameraDescriptor(),
			TagValve:  ValveDescriptor(),
		}),
		NewService("environment_monitor", map[Tag]*Descriptor{
			TagSensor:       SensorDescriptor(),
			TagBinarySensor: BinarySensorDescriptor(),
			TagWeather:      WeatherDescriptor(),
		}),
		NewService("automation_scene", map[Tag]*Descriptor{
			TagButton:      ButtonDescriptor(),
			TagScene:       SceneDescriptor(),
			TagMediaPlayer: MediaPlayerDescriptor(),
		}),
	}
}
