package fakturoid

// Models cover the fields the MCP tools surface. Fakturoid returns more;
// unknown fields are ignored on decode and omitted on encode.

// Line is a single invoice/expense/generator line.
type Line struct {
	ID            int64  `json:"id,omitempty"`
	Name          string `json:"name"`
	Quantity      string `json:"quantity,omitempty"`
	UnitName      string `json:"unit_name,omitempty"`
	UnitPrice     string `json:"unit_price"`
	VatRate       string `json:"vat_rate,omitempty"`
	InventoryItem int64  `json:"inventory_item_id,omitempty"`
}

// Invoice is an issued invoice.
type Invoice struct {
	ID             int64  `json:"id,omitempty"`
	Number         string `json:"number,omitempty"`
	Status         string `json:"status,omitempty"`
	SubjectID      int64  `json:"subject_id,omitempty"`
	DocumentType   string `json:"document_type,omitempty"`
	IssuedOn       string `json:"issued_on,omitempty"`
	TaxableFulfill string `json:"taxable_fulfillment_due,omitempty"`
	DueOn          string `json:"due_on,omitempty"`
	PaidOn         string `json:"paid_on,omitempty"`
	Due            int    `json:"due,omitempty"`
	Note           string `json:"note,omitempty"`
	Currency       string `json:"currency,omitempty"`
	Subtotal       string `json:"subtotal,omitempty"`
	Total          string `json:"total,omitempty"`
	RemainingTotal string `json:"remaining_amount,omitempty"`
	Lines          []Line `json:"lines,omitempty"`
	HTMLURL        string `json:"html_url,omitempty"`
	PublicHTMLURL  string `json:"public_html_url,omitempty"`
	SentAt         string `json:"sent_at,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
	UpdatedAt      string `json:"updated_at,omitempty"`
}

// Expense is a received cost document.
type Expense struct {
	ID             int64  `json:"id,omitempty"`
	Number         string `json:"number,omitempty"`
	OriginalNumber string `json:"original_number,omitempty"`
	Status         string `json:"status,omitempty"`
	SubjectID      int64  `json:"subject_id,omitempty"`
	IssuedOn       string `json:"issued_on,omitempty"`
	DueOn          string `json:"due_on,omitempty"`
	PaidOn         string `json:"paid_on,omitempty"`
	Description    string `json:"description,omitempty"`
	Currency       string `json:"currency,omitempty"`
	Subtotal       string `json:"subtotal,omitempty"`
	Total          string `json:"total,omitempty"`
	Lines          []Line `json:"lines,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
	UpdatedAt      string `json:"updated_at,omitempty"`
}

// Subject is a customer or supplier contact.
type Subject struct {
	ID             int64  `json:"id,omitempty"`
	Type           string `json:"type,omitempty"`
	Name           string `json:"name"`
	FullName       string `json:"full_name,omitempty"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Web            string `json:"web,omitempty"`
	Street         string `json:"street,omitempty"`
	City           string `json:"city,omitempty"`
	Zip            string `json:"zip,omitempty"`
	Country        string `json:"country,omitempty"`
	RegistrationNo string `json:"registration_no,omitempty"`
	VatNo          string `json:"vat_no,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
	UpdatedAt      string `json:"updated_at,omitempty"`
}

// Generator is a template for creating invoices.
type Generator struct {
	ID        int64  `json:"id,omitempty"`
	Name      string `json:"name"`
	SubjectID int64  `json:"subject_id,omitempty"`
	Currency  string `json:"currency,omitempty"`
	Subtotal  string `json:"subtotal,omitempty"`
	Total     string `json:"total,omitempty"`
	Lines     []Line `json:"lines,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// RecurringGenerator creates invoices on a schedule.
type RecurringGenerator struct {
	ID               int64  `json:"id,omitempty"`
	Name             string `json:"name"`
	SubjectID        int64  `json:"subject_id,omitempty"`
	StartDate        string `json:"start_date,omitempty"`
	EndDate          string `json:"end_date,omitempty"`
	MonthsPeriod     int    `json:"months_period,omitempty"`
	NextOccurrenceOn string `json:"next_occurrence_on,omitempty"`
	Active           bool   `json:"active,omitempty"`
	Currency         string `json:"currency,omitempty"`
	Lines            []Line `json:"lines,omitempty"`
	CreatedAt        string `json:"created_at,omitempty"`
	UpdatedAt        string `json:"updated_at,omitempty"`
}

// InventoryItem is a stocked product or service.
type InventoryItem struct {
	ID              int64  `json:"id,omitempty"`
	Name            string `json:"name"`
	SKU             string `json:"sku,omitempty"`
	TrackQuantity   bool   `json:"track_quantity,omitempty"`
	Quantity        string `json:"quantity,omitempty"`
	NativeUnitPrice string `json:"native_purchase_price,omitempty"`
	NativeRetail    string `json:"native_retail_price,omitempty"`
	UnitName        string `json:"unit_name,omitempty"`
	VatRate         string `json:"vat_rate,omitempty"`
	ArchivedAt      string `json:"archived_at,omitempty"`
	CreatedAt       string `json:"created_at,omitempty"`
	UpdatedAt       string `json:"updated_at,omitempty"`
}

// InventoryMove is a stock movement for an inventory item.
type InventoryMove struct {
	ID            int64  `json:"id,omitempty"`
	Direction     string `json:"direction,omitempty"`
	MovedOn       string `json:"moved_on,omitempty"`
	QuantityDelta string `json:"quantity_change,omitempty"`
	PurchasePrice string `json:"purchase_price,omitempty"`
	Note          string `json:"private_note,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
}

// BankAccount is a configured bank account.
type BankAccount struct {
	ID        int64  `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	Currency  string `json:"currency,omitempty"`
	Number    string `json:"number,omitempty"`
	IBAN      string `json:"iban,omitempty"`
	SwiftBic  string `json:"swift_bic,omitempty"`
	Pairing   bool   `json:"pairing,omitempty"`
	Default   bool   `json:"default,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// NumberFormat is a document numbering scheme.
type NumberFormat struct {
	ID        int64  `json:"id,omitempty"`
	Format    string `json:"format,omitempty"`
	Preview   string `json:"preview,omitempty"`
	Default   bool   `json:"default,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Event is an audit trail entry.
type Event struct {
	Name      string         `json:"name,omitempty"`
	CreatedAt string         `json:"created_at,omitempty"`
	Text      string         `json:"text,omitempty"`
	RelatedID int64          `json:"related_object_id,omitempty"`
	User      map[string]any `json:"user,omitempty"`
}

// Todo is an actionable item Fakturoid generated for the account.
type Todo struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	Text        string `json:"text,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	CompletedAt string `json:"completed_at,omitempty"`
}

// Webhook is a registered event notification target.
type Webhook struct {
	ID          int64    `json:"id,omitempty"`
	WebhookURL  string   `json:"webhook_url"`
	AuthHeader  string   `json:"auth_header,omitempty"`
	Active      bool     `json:"active"`
	Events      []string `json:"events"`
	CreatedAt   string   `json:"created_at,omitempty"`
	UpdatedAt   string   `json:"updated_at,omitempty"`
}

// User is an account member.
type User struct {
	ID            int64  `json:"id,omitempty"`
	FullName      string `json:"full_name,omitempty"`
	Email         string `json:"email,omitempty"`
	Permission    string `json:"permission,omitempty"`
	DefaultAcct   string `json:"default_account,omitempty"`
	AllowedScopes []string `json:"allowed_scope,omitempty"`
}

// Account is the account detail record.
type Account struct {
	Slug              string `json:"slug,omitempty"`
	Name              string `json:"name,omitempty"`
	RegistrationNo    string `json:"registration_no,omitempty"`
	VatNo             string `json:"vat_no,omitempty"`
	VatMode           string `json:"vat_mode,omitempty"`
	Currency          string `json:"currency,omitempty"`
	InvoiceEmail      string `json:"invoice_email,omitempty"`
	Phone             string `json:"phone,omitempty"`
	Web               string `json:"web,omitempty"`
	Street            string `json:"street,omitempty"`
	City              string `json:"city,omitempty"`
	Zip               string `json:"zip,omitempty"`
	Country           string `json:"country,omitempty"`
	Plan              string `json:"plan,omitempty"`
	DueDefault        int    `json:"invoice_due,omitempty"`
	CreatedAt         string `json:"created_at,omitempty"`
	UpdatedAt         string `json:"updated_at,omitempty"`
}
