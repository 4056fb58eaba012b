package devices

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRejectsDuplicateTag(t *testing.T) {
	r := NewRegistry(testLogger())

	first := NewService("first", map[Tag]*Descriptor{TagLight: LightDescriptor()})
	second := NewService("second", map[Tag]*Descriptor{TagLight: LightDescriptor()})

	require.NoError(t, r.Register(first))
	err := r.Register(second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTagClaimed))
	assert.Contains(t, err.Error(), "first")
	assert.Contains(t, err.Error(), "second")
}

func TestDuplicateRegistrationClaimsNothing(t *testing.T) {
	r := NewRegistry(testLogger())

	require.NoError(t, r.Register(NewService("first", map[Tag]*Descriptor{TagLight: LightDescriptor()})))
	err := r.Register(NewService("second", map[Tag]*Descriptor{
		TagLight:  LightDescriptor(),
		TagSwitch: SwitchDescriptor(),
	}))
	require.Error(t, err)

	// A partially conflicting service must not claim its other tags either
	assert.Equal(t, []Tag{TagLight}, r.Tags())
}

func TestDispatchUnknownTagIsSilentNoOp(t *testing.T) {
	r := NewRegistry(testLogger())
	require.NoError(t, r.Register(NewService("lighting", map[Tag]*Descriptor{TagLight: LightDescriptor()})))

	env := newTestEnv(&DeviceEntry{
		ID:       "entry1",
		Name:     "Mystery Device",
		Type:     Tag("quantum_toaster"),
		Entities: []EntityConfig{{}},
	})

	entities := r.Dispatch(env.ctx)
	assert.Empty(t, entities)
}

func TestDispatchBuildsEntitiesInOrder(t *testing.T) {
	r := NewRegistry(testLogger())
	require.NoError(t, r.Register(NewService("lighting", map[Tag]*Descriptor{TagLight: LightDescriptor()})))

	env := newTestEnv(&DeviceEntry{
		ID:   "entry1",
		Name: "Hallway Lights",
		Type: TagLight,
		Entities: []EntityConfig{
			{"entity_name": "hall_front"},
			{"entity_name": "hall_back"},
		},
	})

	entities := r.Dispatch(env.ctx)
	require.Len(t, entities, 2)
	assert.Equal(t, "hall_front", entities[0].Name())
	assert.Equal(t, "hall_back", entities[1].Name())
	assert.Equal(t, "entry1_light_0", entities[0].ID())
	assert.Equal(t, "entry1_light_1", entities[1].ID())
}

func TestBuildSkipsInvalidEntityAndKeepsRest(t *testing.T) {
	r := NewRegistry(testLogger())
	require.NoError(t, r.Register(NewService("appliances", map[Tag]*Descriptor{TagAirPurifier: AirPurifierDescriptor()})))

	env := newTestEnv(&DeviceEntry{
		ID:   "entry1",
		Name: "Purifiers",
		Type: TagAirPurifier,
		Entities: []EntityConfig{
			{"purifier_type": "hepa"},
			{"purifier_type": "cold_fusion"},
			{"purifier_type": "uv"},
		},
	})

	entities := r.Dispatch(env.ctx)
	require.Len(t, entities, 2, "one malformed config must not sink the batch")

	// Surviving entities keep their original index for stable storage keys
	assert.Equal(t, "entry1_air_purifier_0", entities[0].ID())
	assert.Equal(t, "entry1_air_purifier_2", entities[1].ID())
}

func TestDefaultServicesCoverAllTags(t *testing.T) {
	r := NewRegistry(testLogger())
	for _, svc := range DefaultServices() {
		require.NoError(t, r.Register(svc))
	}

	want := []Tag{
		TagAirPurifier, TagBinarySensor, TagButton, TagCamera, TagClimate,
		TagCover, TagFan, TagHumidifier, TagLight, TagLock, TagMediaPlayer,
		TagScene, TagSensor, TagSwitch, TagVacuum, TagValve, TagWaterHeater,
		TagWeather,
	}
	sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })
	assert.Equal(t, want, r.Tags())
}
