package incparse

// Arithmetic symbol ids. sum and product are fixed-arity (exactly one
// or exactly two operands) rather than the left-recursive n-ary lists
// jsonTables uses for its array elements — the scenarios this grammar
// exists for never need a third term at the same precedence level,
// and the fixed arity keeps this hand-built table's state count small.
const (
	arithVariable SymbolID = iota
	arithNumber
	arithPlus
	arithTimes
	arithCaret
	arithLparen
	arithRparen
	arithComment
	arithWS
	arithExpression
	arithExponent
	arithSum
	arithProduct
	arithFactor
	arithGroup
)

const (
	aL0 LexStateID = iota
	aLPlus
	aLTimes
	aLCaret
	aLParenOpen
	aLParenClose
	aLComment
	aLWS
	aLNum
	aLVar
)

// arithTables returns a small precedence-climbing expression grammar:
// `expression -> exponent [COMMENT]`, `exponent -> sum [CARET sum]`,
// `sum -> product [PLUS product]`, `product -> factor [TIMES factor]`,
// `factor -> variable | number | group`, `group -> '(' sum ')'`.
// Every level but the terminal alternatives is hidden when no operator
// fires, so a bare variable or number collapses straight through to
// exponent's slot with nothing but itself to show for it.
func arithTables() *Tables {
	lexStates := make([]LexState, 10)
	l0 := append([]ByteTransition{
		{Byte: '+', Target: aLPlus},
		{Byte: '*', Target: aLTimes},
		{Byte: '^', Target: aLCaret},
		{Byte: '(', Target: aLParenOpen},
		{Byte: ')', Target: aLParenClose},
		{Byte: '#', Target: aLComment},
		{Byte: ' ', Target: aLWS},
	}, append(digitTargets(aLNum), letterTargets(aLVar)...)...)

	lexStates[aL0] = LexState{Transitions: l0}
	lexStates[aLPlus] = LexState{Accept: []AcceptCandidate{{Symbol: arithPlus}}}
	lexStates[aLTimes] = LexState{Accept: []AcceptCandidate{{Symbol: arithTimes}}}
	lexStates[aLCaret] = LexState{Accept: []AcceptCandidate{{Symbol: arithCaret}}}
	lexStates[aLParenOpen] = LexState{Accept: []AcceptCandidate{{Symbol: arithLparen}}}
	lexStates[aLParenClose] = LexState{Accept: []AcceptCandidate{{Symbol: arithRparen}}}
	// The wildcard consumes any byte at all, including a newline —
	// this fixture only needs comments that run to end of input, not
	// the fuller "terminates at the next newline" shape a real
	// grammar compiler would emit.
	lexStates[aLComment] = LexState{
		Accept:      []AcceptCandidate{{Symbol: arithComment}},
		Wildcard:    aLComment,
		HasWildcard: true,
	}
	lexStates[aLWS] = LexState{
		Accept:      []AcceptCandidate{{Symbol: arithWS}},
		Transitions: []ByteTransition{{Byte: ' ', Target: aLWS}},
	}
	lexStates[aLNum] = LexState{
		Accept:      []AcceptCandidate{{Symbol: arithNumber}},
		Transitions: digitTargets(aLNum),
	}
	lexStates[aLVar] = LexState{
		Accept:      []AcceptCandidate{{Symbol: arithVariable}},
		Transitions: letterTargets(aLVar),
	}

	rules := []Rule{
		{NonTerminal: arithExpression, Arity: 1, Hidden: true},  // 0: expression -> exponent
		{NonTerminal: arithExpression, Arity: 2, Hidden: false}, // 1: expression -> exponent COMMENT
		{NonTerminal: arithExponent, Arity: 1, Hidden: true},    // 2: exponent -> sum
		{NonTerminal: arithExponent, Arity: 3, Hidden: false},   // 3: exponent -> sum CARET sum
		{NonTerminal: arithSum, Arity: 1, Hidden: true},         // 4: sum -> product
		{NonTerminal: arithSum, Arity: 3, Hidden: false},        // 5: sum -> product PLUS product
		{NonTerminal: arithProduct, Arity: 1, Hidden: true},     // 6: product -> factor
		{NonTerminal: arithProduct, Arity: 3, Hidden: false},    // 7: product -> factor TIMES factor
		{NonTerminal: arithFactor, Arity: 1, Hidden: true},      // 8: factor -> variable
		{NonTerminal: arithFactor, Arity: 1, Hidden: true},      // 9: factor -> number
		{NonTerminal: arithFactor, Arity: 1, Hidden: true},      // 10: factor -> group
		{NonTerminal: arithGroup, Arity: 3, Hidden: false},      // 11: group -> ( sum )
	}

	const (
		sA0 StateID = iota
		sALparen
		sACaret
		sAPlus
		sATimes
		sFactorVar
		sFactorNum
		sFactorGroupDone
		sProductAfterFactor
		sProductTimesDone
		sSumAfterProduct
		sSumDone
		sExpAfterSum
		sExpDone
		sExprAfterExponent
		sExprCommentDone
		sGroupAfterSum
		sGroupDone
		sAccept
	)

	followFactor := []SymbolID{symbolEOF, arithComment, arithCaret, arithPlus, arithRparen, arithTimes}
	followSum := []SymbolID{symbolEOF, arithComment, arithCaret, arithRparen}
	followExponent := []SymbolID{symbolEOF, arithComment}

	reduceOn := func(rule int, syms []SymbolID) map[SymbolID][]Action {
		acts := make(map[SymbolID][]Action, len(syms))
		for _, s := range syms {
			acts[s] = []Action{{Kind: ActionReduce, Rule: rule}}
		}
		return acts
	}

	entry := func(sumTarget, productTarget StateID) ParseState {
		return ParseState{
			Actions: map[SymbolID][]Action{
				arithVariable: {{Kind: ActionShift, Target: sFactorVar}},
				arithNumber:   {{Kind: ActionShift, Target: sFactorNum}},
				arithLparen:   {{Kind: ActionShift, Target: sALparen}},
			},
			Goto: map[SymbolID]StateID{
				arithFactor:  productTarget,
				arithProduct: sumTarget,
				arithGroup:   sFactorGroupDone,
			},
			LookaheadSet: lookaheadOf(arithVariable, arithNumber, arithLparen),
		}
	}

	states := make([]ParseState, 19)

	states[sA0] = entry(sSumAfterProduct, sProductAfterFactor)
	states[sA0].Goto[arithSum] = sExpAfterSum
	states[sA0].Goto[arithExponent] = sExprAfterExponent
	states[sA0].Goto[arithExpression] = sAccept

	states[sALparen] = entry(sSumAfterProduct, sProductAfterFactor)
	states[sALparen].Goto[arithSum] = sGroupAfterSum

	states[sACaret] = entry(sSumAfterProduct, sProductAfterFactor)
	states[sACaret].Goto[arithSum] = sExpDone

	states[sAPlus] = ParseState{
		Actions: map[SymbolID][]Action{
			arithVariable: {{Kind: ActionShift, Target: sFactorVar}},
			arithNumber:   {{Kind: ActionShift, Target: sFactorNum}},
			arithLparen:   {{Kind: ActionShift, Target: sALparen}},
		},
		Goto: map[SymbolID]StateID{
			arithFactor:  sProductAfterFactor,
			arithGroup:   sFactorGroupDone,
			arithProduct: sSumDone,
		},
		LookaheadSet: lookaheadOf(arithVariable, arithNumber, arithLparen),
	}

	states[sATimes] = ParseState{
		Actions: map[SymbolID][]Action{
			arithVariable: {{Kind: ActionShift, Target: sFactorVar}},
			arithNumber:   {{Kind: ActionShift, Target: sFactorNum}},
			arithLparen:   {{Kind: ActionShift, Target: sALparen}},
		},
		Goto: map[SymbolID]StateID{
			arithGroup:  sFactorGroupDone,
			arithFactor: sProductTimesDone,
		},
		LookaheadSet: lookaheadOf(arithVariable, arithNumber, arithLparen),
	}

	states[sFactorVar] = ParseState{Actions: reduceOn(8, followFactor), LookaheadSet: lookaheadOf(followFactor...)}
	states[sFactorNum] = ParseState{Actions: reduceOn(9, followFactor), LookaheadSet: lookaheadOf(followFactor...)}
	states[sFactorGroupDone] = ParseState{Actions: reduceOn(10, followFactor), LookaheadSet: lookaheadOf(followFactor...)}

	prodActions := reduceOn(6, followFactor)
	prodActions[arithTimes] = []Action{{Kind: ActionShift, Target: sATimes}}
	states[sProductAfterFactor] = ParseState{Actions: prodActions, LookaheadSet: lookaheadOf(followFactor...)}

	states[sProductTimesDone] = ParseState{Actions: reduceOn(7, followFactor), LookaheadSet: lookaheadOf(followFactor...)}

	sumActions := reduceOn(4, followSum)
	sumActions[arithPlus] = []Action{{Kind: ActionShift, Target: sAPlus}}
	states[sSumAfterProduct] = ParseState{Actions: sumActions, LookaheadSet: lookaheadOf(append(followSum, arithPlus)...)}

	states[sSumDone] = ParseState{Actions: reduceOn(5, followSum), LookaheadSet: lookaheadOf(followSum...)}

	expAfterSumActions := reduceOn(2, followExponent)
	expAfterSumActions[arithCaret] = []Action{{Kind: ActionShift, Target: sACaret}}
	states[sExpAfterSum] = ParseState{Actions: expAfterSumActions, LookaheadSet: lookaheadOf(append(followExponent, arithCaret)...)}

	states[sExpDone] = ParseState{Actions: reduceOn(3, followExponent), LookaheadSet: lookaheadOf(followExponent...)}

	states[sExprAfterExponent] = ParseState{
		Actions: map[SymbolID][]Action{
			arithComment: {{Kind: ActionShift, Target: sExprCommentDone}},
			symbolEOF:    {{Kind: ActionReduce, Rule: 0}},
		},
		LookaheadSet: lookaheadOf(arithComment, symbolEOF),
	}
	states[sExprCommentDone] = ParseState{
		Actions:      map[SymbolID][]Action{symbolEOF: {{Kind: ActionReduce, Rule: 1}}},
		LookaheadSet: lookaheadOf(symbolEOF),
	}

	states[sGroupAfterSum] = ParseState{
		Actions:      map[SymbolID][]Action{arithRparen: {{Kind: ActionShift, Target: sGroupDone}}},
		LookaheadSet: lookaheadOf(arithRparen),
	}
	states[sGroupDone] = ParseState{Actions: reduceOn(11, followFactor), LookaheadSet: lookaheadOf(followFactor...)}

	states[sAccept] = ParseState{
		Actions:      map[SymbolID][]Action{symbolEOF: {{Kind: ActionAccept}}},
		LookaheadSet: lookaheadOf(symbolEOF),
	}

	symbols := []SymbolInfo{
		arithVariable:   {Name: "variable", Kind: SymbolTerminal},
		arithNumber:     {Name: "number", Kind: SymbolTerminal},
		arithPlus:       {Name: "+", Kind: SymbolTerminal, Anonymous: true},
		arithTimes:      {Name: "*", Kind: SymbolTerminal, Anonymous: true},
		arithCaret:      {Name: "^", Kind: SymbolTerminal, Anonymous: true},
		arithLparen:     {Name: "(", Kind: SymbolTerminal, Anonymous: true},
		arithRparen:     {Name: ")", Kind: SymbolTerminal, Anonymous: true},
		arithComment:    {Name: "comment", Kind: SymbolTerminal, Ubiquitous: true},
		arithWS:         {Name: "ws", Kind: SymbolTerminal, Ubiquitous: true, Anonymous: true},
		arithExpression: {Name: "expression", Kind: SymbolNonTerminal},
		arithExponent:   {Name: "exponent", Kind: SymbolNonTerminal},
		arithSum:        {Name: "sum", Kind: SymbolNonTerminal},
		arithProduct:    {Name: "product", Kind: SymbolNonTerminal},
		arithFactor:     {Name: "factor", Kind: SymbolNonTerminal},
		arithGroup:      {Name: "group", Kind: SymbolNonTerminal},
	}

	return &Tables{
		Symbols: symbols,
		Lex:     LexDFA{States: lexStates},
		States:  states,
		Rules:   rules,
		Start:   sA0,
	}
}
