package engine

import (
	"sort"
	"strings"

	"lorekeeper/internal/event"
	"lorekeeper/internal/world"
)

// stock adds it to the inventory, stacking onto an existing record. Non-empty
// descriptive fields of it replace the stored ones.
func stock(s *world.State, it world.Item) {
	cur, ok := s.Inventory[it.ID]
	if !ok {
		s.Inventory[it.ID] = it
		return
	}
	cur.Quantity += it.Quantity
	if it.Quality != "" {
		cur.Quality = it.Quality
	}
	if it.Description != "" {
		cur.Description = it.Description
	}
	if it.SetID != "" {
		cur.SetID = it.SetID
	}
	s.Inventory[it.ID] = cur
}

// take removes n units and deletes the record once it is empty. It returns
// the record as it was before the removal.
func take(s *world.State, id string, n int) world.Item {
	it := s.Inventory[id]
	left := it
	left.Quantity -= n
	if left.Quantity <= 0 {
		delete(s.Inventory, id)
	} else {
		s.Inventory[id] = left
	}
	return it
}

func addLoot(s *world.State, drop world.LootDrop) {
	cur, ok := s.Loot[drop.Item]
	if !ok {
		s.Loot[drop.Item] = drop
		return
	}
	cur.Quantity += drop.Quantity
	if drop.Description != "" {
		cur.Description = drop.Description
	}
	if drop.SetID != "" {
		cur.SetID = drop.SetID
	}
	s.Loot[drop.Item] = cur
}

func checkHeld(s *world.State, id string, n int) *Reason {
	it, ok := s.Inventory[id]
	if !ok || it.Quantity < 1 {
		return reasonf(CodeItemNotHeld, "item not held: %s", id)
	}
	if it.Quantity < n {
		return reasonf(CodeInsufficientQuantity, "insufficient quantity: %s has %d, need %d", id, it.Quantity, n)
	}
	return nil
}

func checkAddItem(s *world.State, e event.AddItem, _ Rules) *Reason {
	if r := needPlayer(s); r != nil {
		return r
	}
	if r := required("item_id", e.ItemID); r != nil {
		return r
	}
	if r := positive("quantity", e.Quantity); r != nil {
		return r
	}
	return inRange("quantity", s.Inventory[e.ItemID].Quantity, e.Quantity)
}

func applyAddItem(s *world.State, e event.AddItem, r Rules) {
	stock(s, world.Item{
		ID:          e.ItemID,
		Quantity:    e.Quantity,
		Quality:     strings.TrimSpace(e.Quality),
		Description: clip(e.Description, r.MaxDetailsLength),
		SetID:       strings.TrimSpace(e.SetID),
	})
}

func checkRemoveItem(s *world.State, e event.RemoveItem, _ Rules) *Reason {
	if r := needPlayer(s); r != nil {
		return r
	}
	if r := required("item_id", e.ItemID); r != nil {
		return r
	}
	if r := positive("quantity", e.Quantity); r != nil {
		return r
	}
	return checkHeld(s, e.ItemID, e.Quantity)
}

func applyRemoveItem(s *world.State, e event.RemoveItem, _ Rules) {
	take(s, e.ItemID, e.Quantity)
}

func checkDropItem(s *world.State, e event.DropItem, _ Rules) *Reason {
	if r := needPlayer(s); r != nil {
		return r
	}
	if r := required("item_id", e.ItemID); r != nil {
		return r
	}
	if r := positive("quantity", e.Quantity); r != nil {
		return r
	}
	if r := checkHeld(s, e.ItemID, e.Quantity); r != nil {
		return r
	}
	return inRange("loot quantity", s.Loot[e.ItemID].Quantity, e.Quantity)
}

func applyDropItem(s *world.State, e event.DropItem, r Rules) {
	it := take(s, e.ItemID, e.Quantity)
	desc := clip(e.Description, r.MaxDetailsLength)
	if desc == "" {
		desc = it.Description
	}
	addLoot(s, world.LootDrop{Item: e.ItemID, Quantity: e.Quantity, Description: desc, SetID: it.SetID})
}

// gearCategory sorts an equipment slot into the player's weapon, armor or
// clothing list. Unknown slots count as clothing.
func gearCategory(slot string) string {
	for _, w := range []string{"hand", "weapon", "bow", "quiver", "sheath"} {
		if strings.Contains(slot, w) {
			return "weapons"
		}
	}
	for _, a := range []string{"armor", "armour", "head", "helm", "chest", "body", "legs", "feet", "shield", "arms", "gloves", "shoulders"} {
		if strings.Contains(slot, a) {
			return "armor"
		}
	}
	return "clothing"
}

func gearList(p *world.Player, slot string) *[]string {
	switch gearCategory(slot) {
	case "weapons":
		return &p.Weapons
	case "armor":
		return &p.Armor
	}
	return &p.Clothing
}

func slotName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func checkEquipItem(s *world.State, e event.EquipItem, _ Rules) *Reason {
	if r := needPlayer(s); r != nil {
		return r
	}
	if r := required("item_id", e.ItemID, "slot", e.Slot); r != nil {
		return r
	}
	if r := checkHeld(s, e.ItemID, 1); r != nil {
		return r
	}
	if cur, ok := s.Equipment[slotName(e.Slot)]; ok && !e.Replace {
		return reasonf(CodeSlotOccupied, "slot occupied: %s holds %s", cur.Slot, cur.ItemID)
	}
	return nil
}

func applyEquipItem(s *world.State, e event.EquipItem, r Rules) {
	slot := slotName(e.Slot)
	if cur, ok := s.Equipment[slot]; ok {
		unequip(s, cur)
	}
	it := take(s, e.ItemID, 1)
	eq := world.Equipped{Slot: slot, ItemID: e.ItemID, SetID: it.SetID, Description: it.Description}
	if v := strings.TrimSpace(e.SetID); v != "" {
		eq.SetID = v
	}
	if v := clip(e.Description, r.MaxDetailsLength); v != "" {
		eq.Description = v
	}
	s.Equipment[slot] = eq
	list := gearList(s.Player, slot)
	*list = mergeList(*list, []string{e.ItemID}, nil, 0)
}

// unequip empties the slot and returns the item to the inventory.
func unequip(s *world.State, eq world.Equipped) {
	delete(s.Equipment, eq.Slot)
	stock(s, world.Item{ID: eq.ItemID, Quantity: 1, Description: eq.Description, SetID: eq.SetID})
	for _, other := range s.Equipment {
		if other.ItemID == eq.ItemID {
			return
		}
	}
	list := gearList(s.Player, eq.Slot)
	*list = withoutFold(*list, eq.ItemID)
}

func equippedSlot(s *world.State, itemID string) (world.Equipped, bool) {
	for _, slot := range sortedSlots(s) {
		if eq := s.Equipment[slot]; eq.ItemID == itemID {
			return eq, true
		}
	}
	return world.Equipped{}, false
}

func sortedSlots(s *world.State) []string {
	slots := make([]string, 0, len(s.Equipment))
	for slot := range s.Equipment {
		slots = append(slots, slot)
	}
	sort.Strings(slots)
	return slots
}

func checkUnequipItem(s *world.State, e event.UnequipItem, _ Rules) *Reason {
	if r := needPlayer(s); r != nil {
		return r
	}
	if r := required("item_id", e.ItemID); r != nil {
		return r
	}
	if _, ok := equippedSlot(s, e.ItemID); !ok {
		return reasonf(CodeNotEquipped, "not equipped: %s", e.ItemID)
	}
	return nil
}

func applyUnequipItem(s *world.State, e event.UnequipItem, _ Rules) {
	eq, _ := equippedSlot(s, e.ItemID)
	unequip(s, eq)
}

func checkSpawnLoot(s *world.State, e event.SpawnLoot, _ Rules) *Reason {
	if r := required("item", e.Item); r != nil {
		return r
	}
	return checkLootQuantity(s, e.Item, e.Quantity)
}

// checkLootQuantity validates an optional quantity about to be piled onto
// the loot for item.
func checkLootQuantity(s *world.State, item string, quantity int) *Reason {
	q, r := optionalQuantity(quantity)
	if r != nil {
		return r
	}
	return inRange("loot quantity", s.Loot[item].Quantity, q)
}

func applySpawnLoot(s *world.State, e event.SpawnLoot, r Rules) {
	q, _ := optionalQuantity(e.Quantity)
	addLoot(s, world.LootDrop{
		Item:        e.Item,
		Quantity:    q,
		Description: clip(e.Description, r.MaxDetailsLength),
		SetID:       strings.TrimSpace(e.SetID),
	})
}

func checkPickupLoot(s *world.State, e event.PickupLoot, _ Rules) *Reason {
	if r := needPlayer(s); r != nil {
		return r
	}
	if r := required("item", e.Item); r != nil {
		return r
	}
	if e.Quantity < 0 {
		return reasonf(CodeInvalidValue, "invalid value: quantity must not be negative, got %d", e.Quantity)
	}
	drop, ok := s.Loot[e.Item]
	if !ok {
		return unknown("loot", e.Item)
	}
	if e.Quantity > drop.Quantity {
		return reasonf(CodeInsufficientQuantity, "insufficient quantity: %s has %d on the ground, need %d", e.Item, drop.Quantity, e.Quantity)
	}
	n := e.Quantity
	if n == 0 {
		n = drop.Quantity
	}
	return inRange("quantity", s.Inventory[e.Item].Quantity, n)
}

// applyPickupLoot takes the whole pile unless a quantity is given.
func applyPickupLoot(s *world.State, e event.PickupLoot, _ Rules) {
	drop := s.Loot[e.Item]
	n := e.Quantity
	if n == 0 {
		n = drop.Quantity
	}
	if n == drop.Quantity {
		delete(s.Loot, e.Item)
	} else {
		left := drop
		left.Quantity -= n
		s.Loot[e.Item] = left
	}
	stock(s, world.Item{ID: e.Item, Quantity: n, Description: drop.Description, SetID: drop.SetID})
}

func checkCurrencyChange(s *world.State, e event.CurrencyChange, _ Rules) *Reason {
	if r := needPlayer(s); r != nil {
		return r
	}
	if r := required("currency", e.Currency); r != nil {
		return r
	}
	bal := s.Currencies[currencyName(e.Currency)]
	if r := inRange(currencyName(e.Currency), bal, e.Delta); r != nil {
		return r
	}
	if bal+e.Delta < 0 {
		return reasonf(CodeInsufficientFunds, "insufficient funds: %d %s held, %d needed", bal, currencyName(e.Currency), -e.Delta)
	}
	return nil
}

func applyCurrencyChange(s *world.State, e event.CurrencyChange, _ Rules) {
	s.Currencies[currencyName(e.Currency)] += e.Delta
}

func currencyName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func checkCraft(s *world.State, e event.Craft, _ Rules) *Reason {
	if r := required("item", e.Item); r != nil {
		return r
	}
	return checkLootQuantity(s, e.Item, e.Quantity)
}

func applyCraft(s *world.State, e event.Craft, r Rules) {
	q, _ := optionalQuantity(e.Quantity)
	desc := clip(e.Description, r.MaxDetailsLength)
	if quality := strings.TrimSpace(e.Quality); quality != "" && desc == "" {
		desc = quality
	}
	addLoot(s, world.LootDrop{Item: e.Item, Quantity: q, Description: desc, SetID: strings.TrimSpace(e.SetID)})
}

func checkGather(s *world.State, e event.Gather, _ Rules) *Reason {
	if r := required("item", e.Item); r != nil {
		return r
	}
	return checkLootQuantity(s, e.Item, e.Quantity)
}

func applyGather(s *world.State, e event.Gather, r Rules) {
	q, _ := optionalQuantity(e.Quantity)
	addLoot(s, world.LootDrop{Item: e.Item, Quantity: q, Description: clip(e.Description, r.MaxDetailsLength)})
}
