package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost costo promedio ponderado tras una entrada (servicio de dominio).
// NuevoCosto = ((Stock * Costo) + (CantEntrada * CostoEntrada)) / (Stock + CantEntrada)
// Un stock previo negativo (sobreventa) no aporta valor: se toma como cero.
// Si la suma no es positiva conserva el costo de la entrada.
func WeightedAverageCost(stock, cost, inQty, inCost decimal.Decimal) decimal.Decimal {
	if stock.IsNegative() {
		stock = decimal.Zero
	}
	sum := stock.Add(inQty)
	if sum.LessThanOrEqual(decimal.Zero) {
		return inCost
	}
	num := stock.Mul(cost).Add(inQty.Mul(inCost))
	return num.Div(sum)
}
