package distributor

import (
	"fmt"
	"strings"

	"github.com/ygrebnov/errorc"
)

// FetchKey names a fetcher and the key it should fetch.
type FetchKey struct {
	Name string `json:"name,omitempty"`
	Key  string `json:"key"`
}

// EmitKey names an emitter and the key the parsed result is emitted under.
type EmitKey struct {
	Name string `json:"name,omitempty"`
	Key  string `json:"key"`
}

// WorkItem is a fetch-emit tuple. The distributor passes it through untouched.
type WorkItem struct {
	ID             string            `json:"id"`
	Fetch          FetchKey          `json:"fetch"`
	Emit           EmitKey           `json:"emit"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	OnParseFailure ParsePolicy       `json:"on_parse_failure"`
}

// ParsePolicy tells consumers what to do with an item that failed to parse.
type ParsePolicy uint8

const (
	// ParsePolicyEmit forwards a failure record to the emitter.
	ParsePolicyEmit ParsePolicy = iota
	// ParsePolicySkip drops the failed item and continues.
	ParsePolicySkip
)

func (p ParsePolicy) String() string {
	switch p {
	case ParsePolicyEmit:
		return "emit"
	case ParsePolicySkip:
		return "skip"
	default:
		return fmt.Sprintf("ParsePolicy(%d)", uint8(p))
	}
}

// ParseParsePolicy converts "skip" or "emit" (any case) to a ParsePolicy.
func ParseParsePolicy(s string) (ParsePolicy, error) {
	switch {
	case strings.EqualFold(s, "skip"):
		return ParsePolicySkip, nil
	case strings.EqualFold(s, "emit"):
		return ParsePolicyEmit, nil
	}
	return ParsePolicyEmit, fmt.Errorf("%w: must be either 'skip' or 'emit': %s", ErrInvalidConfig, s)
}

func (p ParsePolicy) MarshalText() ([]byte, error) {
	switch p {
	case ParsePolicyEmit, ParsePolicySkip:
		return []byte(p.String()), nil
	}
	return nil, errorc.With(ErrInvalidConfig, errorc.String("", "unknown parse policy "+p.String()))
}

func (p *ParsePolicy) UnmarshalText(text []byte) error {
	v, err := ParseParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Defaults carries the names and policy an enumerator stamps on the tuples it builds.
type Defaults struct {
	FetcherName    string
	EmitterName    string
	OnParseFailure ParsePolicy
}

// Tuple builds a WorkItem from keys using the default fetcher, emitter and policy.
func (d Defaults) Tuple(id, fetchKey, emitKey string) WorkItem {
	return WorkItem{
		ID:             id,
		Fetch:          FetchKey{Name: d.FetcherName, Key: fetchKey},
		Emit:           EmitKey{Name: d.EmitterName, Key: emitKey},
		OnParseFailure: d.OnParseFailure,
	}
}

// Kind tags the payload of an Envelope.
type Kind uint8

const (
	// KindItem carries a WorkItem.
	KindItem Kind = iota + 1
	// KindTerminate tells exactly one consumer to stop.
	KindTerminate
)

func (k Kind) String() string {
	switch k {
	case KindItem:
		return "item"
	case KindTerminate:
		return "terminate"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Envelope is the value travelling through the distribution channel.
// Item is only meaningful when Kind is KindItem.
type Envelope struct {
	Kind Kind
	Item WorkItem
}

func itemEnvelope(item WorkItem) Envelope { return Envelope{Kind: KindItem, Item: item} }

func terminateEnvelope() Envelope { return Envelope{Kind: KindTerminate} }
