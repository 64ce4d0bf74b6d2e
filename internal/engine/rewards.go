package engine

import (
	"regexp"
	"strconv"
	"strings"

	"lorekeeper/internal/world"
)

var (
	currencyReward = regexp.MustCompile(`^(\d+)\s+([^\d\[\(].*)$`)
	quantitySuffix = regexp.MustCompile(`(?i)\s+x\s*(\d+)$`)
	setTag         = regexp.MustCompile(`(?i)[\(\[]\s*set\s*:\s*([^\)\]]+?)\s*[\)\]]`)
)

// reward is one parsed quest reward: either an amount of currency or a
// stack of items.
type reward struct {
	currency string
	amount   int
	item     string
	quantity int
	setID    string
}

// parseReward reads "50 gold" as currency and "Potion x2 (set:alchemist)" as
// an item stack. Anything else becomes a single item named by the text.
func parseReward(raw string) (reward, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return reward{}, false
	}
	rw := reward{quantity: 1}
	if m := setTag.FindStringSubmatch(raw); m != nil {
		rw.setID = m[1]
		raw = strings.TrimSpace(strings.Replace(raw, m[0], "", 1))
	} else if m := currencyReward.FindStringSubmatch(raw); m != nil {
		if amount, err := strconv.Atoi(m[1]); err == nil {
			return reward{currency: strings.ToLower(strings.TrimSpace(m[2])), amount: amount}, true
		}
	}
	if loc := quantitySuffix.FindStringSubmatchIndex(raw); loc != nil && loc[0] > 0 {
		if n, err := strconv.Atoi(raw[loc[2]:loc[3]]); err == nil && n > 0 {
			rw.quantity = n
			raw = strings.TrimSpace(raw[:loc[0]])
		}
	}
	rw.item = raw
	return rw, rw.item != ""
}

// checkRewards rejects a reward list whose grant would push a balance or a
// stack out of the int range.
func checkRewards(s *world.State, rewards []string) *Reason {
	currencies := make(map[string]int)
	items := make(map[string]int)
	for _, raw := range rewards {
		rw, ok := parseReward(raw)
		if !ok {
			continue
		}
		if rw.currency != "" {
			cur, seen := currencies[rw.currency]
			if !seen {
				cur = s.Currencies[rw.currency]
			}
			if addOverflows(cur, rw.amount) {
				return reasonf(CodeInvalidValue, "invalid value: reward %q overflows %s", raw, rw.currency)
			}
			currencies[rw.currency] = cur + rw.amount
			continue
		}
		cur, seen := items[rw.item]
		if !seen {
			cur = s.Inventory[rw.item].Quantity
		}
		if addOverflows(cur, rw.quantity) {
			return reasonf(CodeInvalidValue, "invalid value: reward %q overflows %s", raw, rw.item)
		}
		items[rw.item] = cur + rw.quantity
	}
	return nil
}

func grantRewards(s *world.State, rewards []string) {
	for _, raw := range rewards {
		rw, ok := parseReward(raw)
		if !ok {
			continue
		}
		if rw.currency != "" {
			s.Currencies[rw.currency] += rw.amount
			continue
		}
		stock(s, world.Item{ID: rw.item, Quantity: rw.quantity, SetID: rw.setID})
	}
}
