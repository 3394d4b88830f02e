package model

import "unicode"

// NamingStrategy derives table and column names the descriptor leaves out.
type NamingStrategy interface {
	ClassToTableName(className string) string
	PropertyToColumnName(propertyName string) string
}

// DefaultNamingStrategy keeps names as written.
type DefaultNamingStrategy struct{}

func (DefaultNamingStrategy) ClassToTableName(className string) string { return className }

func (DefaultNamingStrategy) PropertyToColumnName(propertyName string) string { return propertyName }

// SnakeCaseNamingStrategy lower-cases names and separates words with
// underscores: OrderLine -> order_line.
type SnakeCaseNamingStrategy struct{}

func (SnakeCaseNamingStrategy) ClassToTableName(className string) string {
	return CamelToSnake(className)
}

func (SnakeCaseNamingStrategy) PropertyToColumnName(propertyName string) string {
	return CamelToSnake(propertyName)
}

// NamingStrategyByName returns the strategy registered under name
// ("default" or "snake").
func NamingStrategyByName(name string) (NamingStrategy, bool) {
	switch name {
	case "", "default":
		return DefaultNamingStrategy{}, true
	case "snake":
		return SnakeCaseNamingStrategy{}, true
	}
	return nil, false
}

// CamelToSnake converts CamelCase to snake_case, keeping acronyms together.
func CamelToSnake(s string) string {
	if s == "ID" {
		return "id"
	}
	runes := []rune(s)
	var res []rune
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				res = append(res, '_')
			}
			res = append(res, unicode.ToLower(r))
		} else {
			res = append(res, r)
		}
	}
	return string(res)
}
