package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// Print renders expr in a fully parenthesized prefix form, e.g.
// "(+ 2 (* 3 4))". It is intended for debugging and tests.
func Print(expr Expr) string {
	var sb strings.Builder
	printExpr(&sb, expr)
	return sb.String()
}

// PrintProgram renders each statement on its own line in the same prefix
// form as Print. Expression statements print as the bare expression.
func PrintProgram(stmts []Statement) string {
	var sb strings.Builder
	for _, stmt := range stmts {
		printStatement(&sb, stmt)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func printStatement(sb *strings.Builder, stmt Statement) {
	switch stmt := stmt.(type) {
	case *BlockStatement:
		sb.WriteString("(block")
		printBody(sb, stmt.Body)
		sb.WriteByte(')')
	case *BreakStatement:
		sb.WriteString("(break)")
	case *ClassStatement:
		sb.WriteString("(class ")
		sb.WriteString(stmt.Name.Lexeme)
		for _, method := range stmt.Methods {
			sb.WriteByte(' ')
			printStatement(sb, method)
		}
		sb.WriteByte(')')
	case *ExprStatement:
		printExpr(sb, stmt.Expr)
	case *FunctionStatement:
		sb.WriteString("(fun ")
		sb.WriteString(stmt.Name.Lexeme)
		sb.WriteString(" (")
		for i, param := range stmt.Parameters {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(param.Lexeme)
		}
		sb.WriteByte(')')
		printBody(sb, stmt.Body)
		sb.WriteByte(')')
	case *IfStatement:
		sb.WriteString("(if ")
		printExpr(sb, stmt.Condition)
		sb.WriteByte(' ')
		printStatement(sb, stmt.Then)
		if stmt.Else != nil {
			sb.WriteByte(' ')
			printStatement(sb, stmt.Else)
		}
		sb.WriteByte(')')
	case *PrintStatement:
		parenthesize(sb, "print", stmt.Expr)
	case *ReturnStatement:
		if stmt.Value == nil {
			sb.WriteString("(return)")
			return
		}
		parenthesize(sb, "return", stmt.Value)
	case *VarStatement:
		if stmt.Initializer == nil {
			fmt.Fprintf(sb, "(var %s)", stmt.Name.Lexeme)
			return
		}
		parenthesize(sb, "var "+stmt.Name.Lexeme, stmt.Initializer)
	case *WhileStatement:
		sb.WriteString("(while ")
		printExpr(sb, stmt.Condition)
		sb.WriteByte(' ')
		printStatement(sb, stmt.Body)
		sb.WriteByte(')')
	default:
		fmt.Fprintf(sb, "<%T>", stmt)
	}
}

func printBody(sb *strings.Builder, body []Statement) {
	for _, stmt := range body {
		sb.WriteByte(' ')
		printStatement(sb, stmt)
	}
}

func printExpr(sb *strings.Builder, expr Expr) {
	switch expr := expr.(type) {
	case *AssignExpr:
		parenthesize(sb, "= "+expr.Name.Lexeme, expr.Value)
	case *BinaryExpr:
		parenthesize(sb, expr.Operator.Lexeme, expr.Left, expr.Right)
	case *CallExpr:
		parenthesize(sb, "call", append([]Expr{expr.Callee}, expr.Args...)...)
	case *GetExpr:
		parenthesize(sb, ". "+expr.Name.Lexeme, expr.Object)
	case *GroupingExpr:
		parenthesize(sb, "group", expr.Expr)
	case *LiteralExpr:
		sb.WriteString(printLiteral(expr.Value))
	case *LogicalExpr:
		parenthesize(sb, expr.Operator.Lexeme, expr.Left, expr.Right)
	case *SetExpr:
		parenthesize(sb, "= . "+expr.Name.Lexeme, expr.Object, expr.Value)
	case *ThisExpr:
		sb.WriteString("this")
	case *UnaryExpr:
		parenthesize(sb, expr.Operator.Lexeme, expr.Right)
	case *VariableExpr:
		sb.WriteString(expr.Name.Lexeme)
	default:
		fmt.Fprintf(sb, "<%T>", expr)
	}
}

func parenthesize(sb *strings.Builder, name string, exprs ...Expr) {
	sb.WriteByte('(')
	sb.WriteString(name)
	for _, expr := range exprs {
		sb.WriteByte(' ')
		printExpr(sb, expr)
	}
	sb.WriteByte(')')
}

func printLiteral(v any) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return strconv.Quote(v)
	default:
		return fmt.Sprint(v)
	}
}
