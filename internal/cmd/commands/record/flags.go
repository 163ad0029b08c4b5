package record

import (
	"fmt"
	"sort"
	"strings"

	"github.com/idpack-cloud/idc-go/pkg/idc"
)

// pairsFlag collects repeated key=value arguments.
type pairsFlag map[string]string

func (p *pairsFlag) String() string {
	if p == nil || *p == nil {
		return ""
	}
	pairs := make([]string, 0, len(*p))
	for k, v := range *p {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}

// Set adds one pair. A value without "=" is stored with an empty value so
// the client reports the malformed key.
func (p *pairsFlag) Set(s string) error {
	if *p == nil {
		*p = make(pairsFlag)
	}
	key, value, _ := strings.Cut(s, "=")
	(*p)[key] = value
	return nil
}

func (p pairsFlag) primaryKey() idc.PrimaryKey {
	if p == nil {
		return nil
	}
	return idc.PrimaryKey(p)
}

func (p pairsFlag) fields() idc.Fields {
	if p == nil {
		return nil
	}
	fields := make(idc.Fields, len(p))
	for k, v := range p {
		fields[k] = v
	}
	return fields
}

// parseSide maps a side name or number onto idc.Side.
func parseSide(s string) (idc.Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "duplex", "0":
		return idc.SideDuplex, nil
	case "front", "1":
		return idc.SideFront, nil
	case "back", "2":
		return idc.SideBack, nil
	default:
		return idc.SideDuplex, fmt.Errorf("invalid side %q: must be duplex, front or back", s)
	}
}
