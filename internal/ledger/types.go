package ledger

// Sheet names of the bookkeeping spreadsheet
const (
	SheetIncome           = "Receitas"
	SheetExpenses         = "Despesas"
	SheetIssuedInvoices   = "NotasEmitidas"
	SheetReceivedInvoices = "NotasRecebidas"
)

// Receitas columns
// A=ID, B=Descrição, C=Cliente, D=CPF/CNPJ, E=Categoria, F=Valor, G=Vencimento,
// H=Pagamento, I=Status, J=Banco, K=Parcela (n/N), L=Detalhes (JSON)
const (
	incomeID = iota
	incomeDescription
	incomeClient
	incomeClientDoc
	incomeCategory
	incomeValue
	incomeDueDate
	incomePaymentDate
	incomeStatus
	incomeBank
	incomeInstallment
	incomeDetail
	incomeColumns
)

// Despesas columns
// A=ID, B=Descrição, C=Categoria, D=Fiscal, E=Valor, F=Lançamento, G=Vencimento, H=Status
const (
	expenseID = iota
	expenseDescription
	expenseCategory
	expenseFiscal
	expenseValue
	expenseLaunchDate
	expenseDueDate
	expenseStatus
	expenseColumns
)

// NotasEmitidas columns
// A=Número, B=Emissão, C=Valor, D=Alíquota ISS, E=Cliente, F=Proposta, G=Parcela
const (
	issuedNumber = iota
	issuedDate
	issuedValue
	issuedTaxRate
	issuedClient
	issuedProposal
	issuedItemID
	issuedColumns
)

// NotasRecebidas columns
// A=Número, B=Emissão, C=CNPJ emitente, D=Emitente, E=Valor total, F=Lançamento
const (
	receivedNumber = iota
	receivedDate
	receivedIssuerTaxID
	receivedIssuerName
	receivedTotal
	receivedLaunchDate
	receivedColumns
)

// minColumns is the number of leading columns a row needs to be parsed. Sheets
// drops trailing empty cells, so optional columns sit at the end.
var minColumns = map[string]int{
	SheetIncome:           incomeDueDate + 1,
	SheetExpenses:         expenseLaunchDate + 1,
	SheetIssuedInvoices:   issuedValue + 1,
	SheetReceivedInvoices: receivedTotal + 1,
}

// sheetRange returns the A1 range covering every column of sheet
func sheetRange(sheet string) string {
	last := map[string]string{
		SheetIncome:           "L",
		SheetExpenses:         "H",
		SheetIssuedInvoices:   "G",
		SheetReceivedInvoices: "F",
	}[sheet]
	return sheet + "!A:" + last
}
