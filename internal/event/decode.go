package event

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"unicode"

	jschema "github.com/santhosh-tekuri/jsonschema/v6"

	"lorekeeper/internal/schema"
)

type decoder struct {
	zero   Event
	decode func(json.RawMessage) (Event, error)
}

func register[T Event]() decoder {
	var zero T
	return decoder{
		zero: zero,
		decode: func(raw json.RawMessage) (Event, error) {
			var v T
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, err
			}
			return v, nil
		},
	}
}

var decoders = func() map[Kind]decoder {
	all := []decoder{
		register[NpcSpawn](),
		register[NpcUpdate](),
		register[NpcDespawn](),
		register[NpcJoinParty](),
		register[NpcLeaveParty](),
		register[AddPartyMember](),
		register[PartyUpdate](),
		register[RelationshipChange](),
		register[FactionSpawn](),
		register[FactionUpdate](),
		register[FactionRepChange](),
		register[StartQuest](),
		register[UpdateQuest](),
		register[AddItem](),
		register[RemoveItem](),
		register[DropItem](),
		register[EquipItem](),
		register[UnequipItem](),
		register[SpawnLoot](),
		register[PickupLoot](),
		register[CurrencyChange](),
		register[ModifyStat](),
		register[PlayerUpdate](),
		register[AddExp](),
		register[LevelUp](),
		register[GrantPower](),
		register[SetFlag](),
		register[ClearFlag](),
		register[SectionUpsert](),
		register[SectionRemove](),
		register[TimePassed](),
		register[Dialogue](),
		register[Combat](),
		register[Travel](),
		register[Rest](),
		register[Craft](),
		register[Gather](),
		register[RequestContext](),
		register[RequestRetcon](),
	}
	m := make(map[Kind]decoder, len(all))
	for _, d := range all {
		m[d.zero.Kind()] = d
	}
	return m
}()

var (
	shapesMu sync.Mutex
	shapes   = make(map[Kind]*jschema.Schema)
)

func shapeOf(k Kind) (*jschema.Schema, error) {
	shapesMu.Lock()
	defer shapesMu.Unlock()

	if sch, ok := shapes[k]; ok {
		return sch, nil
	}
	d, ok := decoders[k]
	if !ok {
		return nil, fmt.Errorf("unknown kind %q", k)
	}
	sch, err := schema.Compile("event-"+string(k), d.zero)
	if err != nil {
		return nil, err
	}
	shapes[k] = sch
	return sch, nil
}

// Schema returns the JSON Schema document describing the payload of k.
func Schema(k Kind) ([]byte, error) {
	d, ok := decoders[k]
	if !ok {
		return nil, fmt.Errorf("unknown kind %q", k)
	}
	return schema.Generate("event-"+string(k), d.zero)
}

// Decode turns one JSON payload into an Event. It never fails: anything that
// does not match a declared kind comes back as Unrecognized.
func Decode(raw json.RawMessage) Event {
	raw = append(json.RawMessage(nil), bytes.TrimSpace(raw)...)

	doc, err := jschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return Unrecognized{Raw: raw, Problem: "payload is not valid JSON"}
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return Unrecognized{Raw: raw, Problem: "payload is not a JSON object"}
	}
	typ, ok := obj["type"].(string)
	if !ok || strings.TrimSpace(typ) == "" {
		return Unrecognized{Raw: raw, Problem: "payload has no type"}
	}

	kind := NormalizeKind(typ)
	d, ok := decoders[kind]
	if !ok {
		return Unrecognized{Type: typ, Raw: raw}
	}

	sch, err := shapeOf(kind)
	if err != nil {
		return Unrecognized{Type: typ, Raw: raw, Problem: err.Error()}
	}
	if err := schema.ValidateValue(sch, doc); err != nil {
		return Unrecognized{Type: typ, Raw: raw, Problem: schema.FormatError(err)}
	}

	ev, err := d.decode(raw)
	if err != nil {
		return Unrecognized{Type: typ, Raw: raw, Problem: err.Error()}
	}
	return ev
}

// DecodeAll decodes every payload, preserving order.
func DecodeAll(raws []json.RawMessage) []Event {
	events := make([]Event, 0, len(raws))
	for _, raw := range raws {
		events = append(events, Decode(raw))
	}
	return events
}

// Encode renders ev in its wire form.
func Encode(ev Event) (json.RawMessage, error) {
	if u, ok := ev.(Unrecognized); ok {
		return u.Raw, nil
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", ev.Kind(), err)
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("encoding %s: %w", ev.Kind(), err)
	}
	kind, _ := json.Marshal(string(ev.Kind()))
	fields["type"] = kind
	out, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", ev.Kind(), err)
	}
	return out, nil
}

// NormalizeKind maps "NpcSpawn", "npc-spawn" and "Npc Spawn" to npc_spawn.
func NormalizeKind(s string) Kind {
	s = strings.TrimSpace(s)
	var b strings.Builder
	prevLower := false
	for _, r := range s {
		switch {
		case r == '-' || r == ' ' || r == '_':
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "_") {
				b.WriteByte('_')
			}
			prevLower = false
		case unicode.IsUpper(r):
			if prevLower {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}
	return Kind(strings.Trim(b.String(), "_"))
}
