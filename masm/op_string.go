package masm

var opStrings = map[Op]string{
	OpPush:     "push",
	OpDrop:     "drop",
	OpDup:      "dup",
	OpSwap:     "swap",
	OpMoveUp:   "movup",
	OpMemLoad:  "mem_load",
	OpMemStore: "mem_store",
	OpLocLoad:  "loc_load",
	OpLocStore: "loc_store",
	OpExec:     "exec",
	OpIf:       "if.true",
	OpWhile:    "while.true",

	OpIAdd:   "add",
	OpISub:   "sub",
	OpIMul:   "mul",
	OpIDiv:   "div",
	OpIMod:   "mod",
	OpIDivMod: "divmod",
	OpIShL:   "shl",
	OpIShR:   "shr",
	OpIAnd:   "u32and",
	OpIOr:    "u32or",
	OpIXor:   "u32xor",
	OpINot:   "u32not",

	OpIEq:   "eq",
	OpINeq:  "neq",
	OpILt:   "lt",
	OpIGt:   "gt",
	OpILte:  "lte",
	OpIGte:  "gte",
	OpIEqz:  "eqz",

	OpIAdd64: "u64::add",
	OpISub64: "u64::sub",
	OpIMul64: "u64::mul",
	OpIShL64: "u64::shl",
	OpIShR64: "u64::shr",
	OpIAnd64: "u64::and",
	OpIOr64:  "u64::or",
	OpIXor64: "u64::xor",
	OpIEq64:  "u64::eq",
	OpINeq64: "u64::neq",
	OpILt64:  "u64::lt",
	OpIGt64:  "u64::gt",
	OpILte64: "u64::lte",
	OpIGte64: "u64::gte",
	OpIEqz64: "u64::eqz",

	OpCDrop:  "cdrop",
	OpAssert: "assert",
}

func (op Op) String() string {
	if s, ok := opStrings[op]; ok {
		return s
	}
	return "invalid"
}
