package query

// parseOpCall parses: identifier ("." identifier)* "(" (identifier "=" expression ",")* (identifier "=" expression)? ")"
func (p *Parser) parseOpCall() (OpCall, error) {
	var call OpCall

	name, err := p.expect(TokenIdent)
	if err != nil {
		return call, err
	}
	call.Path = append(call.Path, name)

	for p.check(TokenDot) {
		p.advance()
		name, err := p.expect(TokenIdent)
		if err != nil {
			return call, err
		}
		call.Path = append(call.Path, name)
	}

	if _, err := p.expect(TokenLeftParen); err != nil {
		return call, err
	}
	names, values, err := p.parseNamedExpressions(TokenRightParen, "operator argument")
	if err != nil {
		return call, err
	}
	for i := range names {
		call.Args = append(call.Args, Arg{Name: names[i], Value: values[i]})
	}
	return call, nil
}
