package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/christkomika7/atlas-crm-sub004/internal/model"
	"github.com/christkomika7/atlas-crm-sub004/internal/repository"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return d
}

// In-memory fakes backing the service tests. They reproduce the relative
// update semantics of the real repositories (AdjustBalances, AdjustQuantity,
// UpdateSettlement) so the aggregate arithmetic under test is the services'
// own, not the fakes'.

type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type fakeFileStore struct {
	copies  int
	removed []string
}

func (f *fakeFileStore) Save(name string, r io.Reader) (string, error) {
	return "stored_" + name, nil
}

func (f *fakeFileStore) Copy(path string) (string, error) {
	f.copies++
	return fmt.Sprintf("copy%d_%s", f.copies, path), nil
}

func (f *fakeFileStore) Remove(path string) error {
	f.removed = append(f.removed, path)
	return nil
}

// --- documents ---

type fakeDocumentRepo struct {
	docs  map[uuid.UUID]model.Document
	items map[uuid.UUID][]model.DocumentItem
	files map[uuid.UUID][]model.DocumentFile
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{
		docs:  make(map[uuid.UUID]model.Document),
		items: make(map[uuid.UUID][]model.DocumentItem),
		files: make(map[uuid.UUID][]model.DocumentFile),
	}
}

func (f *fakeDocumentRepo) Create(ctx context.Context, doc *model.Document) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	items := make([]model.DocumentItem, len(doc.Items))
	for i, item := range doc.Items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.DocumentID = doc.ID
		items[i] = item
	}
	files := make([]model.DocumentFile, len(doc.Files))
	for i, file := range doc.Files {
		if file.ID == uuid.Nil {
			file.ID = uuid.New()
		}
		file.DocumentID = doc.ID
		files[i] = file
	}

	stored := *doc
	stored.Items = nil
	stored.Files = nil
	f.docs[doc.ID] = stored
	f.items[doc.ID] = items
	f.files[doc.ID] = files
	return nil
}

func (f *fakeDocumentRepo) Update(ctx context.Context, doc *model.Document) error {
	if _, ok := f.docs[doc.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *doc
	stored.Items = nil
	stored.Files = nil
	f.docs[doc.ID] = stored
	return nil
}

func (f *fakeDocumentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.docs, id)
	return nil
}

func (f *fakeDocumentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	doc.Items = f.items[id]
	doc.Files = f.files[id]
	return &doc, nil
}

func (f *fakeDocumentRepo) FindByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeDocumentRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeDocumentRepo) List(ctx context.Context, filter repository.DocumentListFilter) ([]model.Document, int64, error) {
	var result []model.Document
	for id, doc := range f.docs {
		if doc.CompanyID != filter.CompanyID || doc.Kind != filter.Kind {
			continue
		}
		if filter.Paid != nil && doc.IsPaid != *filter.Paid {
			continue
		}
		doc.Items = f.items[id]
		result = append(result, doc)
	}
	return result, int64(len(result)), nil
}

func (f *fakeDocumentRepo) NextNumber(ctx context.Context, companyID uuid.UUID, kind string) (int, error) {
	max := 0
	for _, doc := range f.docs {
		if doc.CompanyID == companyID && doc.Kind == kind && doc.Number > max {
			max = doc.Number
		}
	}
	return max + 1, nil
}

func (f *fakeDocumentRepo) ReplaceItems(ctx context.Context, documentID uuid.UUID, items []model.DocumentItem) error {
	stored := make([]model.DocumentItem, len(items))
	for i, item := range items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.DocumentID = documentID
		stored[i] = item
	}
	f.items[documentID] = stored
	return nil
}

func (f *fakeDocumentRepo) ReplaceFiles(ctx context.Context, documentID uuid.UUID, files []model.DocumentFile) error {
	stored := make([]model.DocumentFile, len(files))
	for i, file := range files {
		if file.ID == uuid.Nil {
			file.ID = uuid.New()
		}
		file.DocumentID = documentID
		stored[i] = file
	}
	f.files[documentID] = stored
	return nil
}

func (f *fakeDocumentRepo) DeleteItems(ctx context.Context, documentID uuid.UUID) error {
	delete(f.items, documentID)
	return nil
}

func (f *fakeDocumentRepo) DeleteFiles(ctx context.Context, documentID uuid.UUID) error {
	delete(f.files, documentID)
	return nil
}

func (f *fakeDocumentRepo) UpdateSettlement(ctx context.Context, id uuid.UUID, payeeDelta decimal.Decimal, isPaid bool) error {
	doc, ok := f.docs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	doc.Payee = doc.Payee.Add(payeeDelta)
	doc.IsPaid = isPaid
	f.docs[id] = doc
	return nil
}

// --- clients ---

type fakeClientRepo struct {
	clients   map[uuid.UUID]*model.Client
	docCounts map[uuid.UUID]int64
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{
		clients:   make(map[uuid.UUID]*model.Client),
		docCounts: make(map[uuid.UUID]int64),
	}
}

func (f *fakeClientRepo) add(client *model.Client) *model.Client {
	if client.ID == uuid.Nil {
		client.ID = uuid.New()
	}
	f.clients[client.ID] = client
	return client
}

func (f *fakeClientRepo) Create(ctx context.Context, client *model.Client) error {
	f.add(client)
	return nil
}

func (f *fakeClientRepo) Update(ctx context.Context, client *model.Client) error {
	f.clients[client.ID] = client
	return nil
}

func (f *fakeClientRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.clients, id)
	return nil
}

func (f *fakeClientRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	client, ok := f.clients[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return client, nil
}

func (f *fakeClientRepo) List(ctx context.Context, companyID uuid.UUID, search string, page, limit int) ([]model.Client, int64, error) {
	var result []model.Client
	for _, c := range f.clients {
		if c.CompanyID != companyID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(search)) {
			continue
		}
		result = append(result, *c)
	}
	return result, int64(len(result)), nil
}

func (f *fakeClientRepo) AdjustBalances(ctx context.Context, id uuid.UUID, dueDelta, paidDelta decimal.Decimal) error {
	client, ok := f.clients[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	client.Due = client.Due.Add(dueDelta)
	client.PaidAmount = client.PaidAmount.Add(paidDelta)
	return nil
}

func (f *fakeClientRepo) CountDocuments(ctx context.Context, id uuid.UUID) (int64, error) {
	return f.docCounts[id], nil
}

// --- suppliers ---

type fakeSupplierRepo struct {
	suppliers map[uuid.UUID]*model.Supplier
	docCounts map[uuid.UUID]int64
}

func newFakeSupplierRepo() *fakeSupplierRepo {
	return &fakeSupplierRepo{
		suppliers: make(map[uuid.UUID]*model.Supplier),
		docCounts: make(map[uuid.UUID]int64),
	}
}

func (f *fakeSupplierRepo) add(supplier *model.Supplier) *model.Supplier {
	if supplier.ID == uuid.Nil {
		supplier.ID = uuid.New()
	}
	f.suppliers[supplier.ID] = supplier
	return supplier
}

func (f *fakeSupplierRepo) Create(ctx context.Context, supplier *model.Supplier) error {
	f.add(supplier)
	return nil
}

func (f *fakeSupplierRepo) Update(ctx context.Context, supplier *model.Supplier) error {
	f.suppliers[supplier.ID] = supplier
	return nil
}

func (f *fakeSupplierRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.suppliers, id)
	return nil
}

func (f *fakeSupplierRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	supplier, ok := f.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return supplier, nil
}

func (f *fakeSupplierRepo) List(ctx context.Context, companyID uuid.UUID, search string, page, limit int) ([]model.Supplier, int64, error) {
	var result []model.Supplier
	for _, s := range f.suppliers {
		if s.CompanyID == companyID {
			result = append(result, *s)
		}
	}
	return result, int64(len(result)), nil
}

func (f *fakeSupplierRepo) AdjustBalances(ctx context.Context, id uuid.UUID, dueDelta, paidDelta decimal.Decimal) error {
	supplier, ok := f.suppliers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	supplier.Due = supplier.Due.Add(dueDelta)
	supplier.PaidAmount = supplier.PaidAmount.Add(paidDelta)
	return nil
}

func (f *fakeSupplierRepo) CountDocuments(ctx context.Context, id uuid.UUID) (int64, error) {
	return f.docCounts[id], nil
}

// --- projects ---

type fakeProjectRepo struct {
	projects map[uuid.UUID]*model.Project
	tasks    map[uuid.UUID]*model.Task
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{
		projects: make(map[uuid.UUID]*model.Project),
		tasks:    make(map[uuid.UUID]*model.Task),
	}
}

func (f *fakeProjectRepo) add(project *model.Project) *model.Project {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	f.projects[project.ID] = project
	return project
}

func (f *fakeProjectRepo) Create(ctx context.Context, project *model.Project) error {
	f.add(project)
	return nil
}

func (f *fakeProjectRepo) Update(ctx context.Context, project *model.Project) error {
	f.projects[project.ID] = project
	return nil
}

func (f *fakeProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.projects, id)
	return nil
}

func (f *fakeProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	project, ok := f.projects[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return project, nil
}

func (f *fakeProjectRepo) List(ctx context.Context, companyID uuid.UUID, status string, page, limit int) ([]model.Project, int64, error) {
	var result []model.Project
	for _, p := range f.projects {
		if p.CompanyID != companyID {
			continue
		}
		if status != "" && p.Status != status {
			continue
		}
		result = append(result, *p)
	}
	return result, int64(len(result)), nil
}

func (f *fakeProjectRepo) AdjustAggregates(ctx context.Context, id uuid.UUID, amountDelta, balanceDelta decimal.Decimal) error {
	project, ok := f.projects[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	project.Amount = project.Amount.Add(amountDelta)
	project.Balance = project.Balance.Add(balanceDelta)
	return nil
}

func (f *fakeProjectRepo) CreateTask(ctx context.Context, task *model.Task) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	f.tasks[task.ID] = task
	return nil
}

func (f *fakeProjectRepo) UpdateTask(ctx context.Context, task *model.Task) error {
	f.tasks[task.ID] = task
	return nil
}

func (f *fakeProjectRepo) DeleteTask(ctx context.Context, id uuid.UUID) error {
	delete(f.tasks, id)
	return nil
}

func (f *fakeProjectRepo) FindTaskByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	task, ok := f.tasks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return task, nil
}

func (f *fakeProjectRepo) ListTasks(ctx context.Context, projectID uuid.UUID) ([]model.Task, error) {
	var result []model.Task
	for _, t := range f.tasks {
		if t.ProjectID == projectID {
			result = append(result, *t)
		}
	}
	return result, nil
}

// --- catalog ---

type fakeProductRepo struct {
	products map[uuid.UUID]*model.ProductService
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*model.ProductService)}
}

func (f *fakeProductRepo) add(item *model.ProductService) *model.ProductService {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	f.products[item.ID] = item
	return item
}

func (f *fakeProductRepo) Create(ctx context.Context, item *model.ProductService) error {
	f.add(item)
	return nil
}

func (f *fakeProductRepo) Update(ctx context.Context, item *model.ProductService) error {
	f.products[item.ID] = item
	return nil
}

func (f *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.products, id)
	return nil
}

func (f *fakeProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ProductService, error) {
	item, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (f *fakeProductRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.ProductService, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeProductRepo) FindByReference(ctx context.Context, reference string) (*model.ProductService, error) {
	for _, item := range f.products {
		if item.Reference == reference {
			return item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProductRepo) List(ctx context.Context, companyID uuid.UUID, search string, page, limit int) ([]model.ProductService, int64, error) {
	var result []model.ProductService
	for _, item := range f.products {
		if item.CompanyID == companyID {
			result = append(result, *item)
		}
	}
	return result, int64(len(result)), nil
}

func (f *fakeProductRepo) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) error {
	item, ok := f.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	item.Quantity += delta
	return nil
}

// --- billboards ---

type fakeBillboardRepo struct {
	billboards   map[uuid.UUID]*model.Billboard
	reservations []model.DocumentItem
}

func newFakeBillboardRepo() *fakeBillboardRepo {
	return &fakeBillboardRepo{billboards: make(map[uuid.UUID]*model.Billboard)}
}

func (f *fakeBillboardRepo) add(billboard *model.Billboard) *model.Billboard {
	if billboard.ID == uuid.Nil {
		billboard.ID = uuid.New()
	}
	f.billboards[billboard.ID] = billboard
	return billboard
}

func (f *fakeBillboardRepo) Create(ctx context.Context, billboard *model.Billboard) error {
	f.add(billboard)
	return nil
}

func (f *fakeBillboardRepo) Update(ctx context.Context, billboard *model.Billboard) error {
	f.billboards[billboard.ID] = billboard
	return nil
}

func (f *fakeBillboardRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.billboards, id)
	return nil
}

func (f *fakeBillboardRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Billboard, error) {
	billboard, ok := f.billboards[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return billboard, nil
}

func (f *fakeBillboardRepo) List(ctx context.Context, companyID uuid.UUID, search string, page, limit int) ([]model.Billboard, int64, error) {
	var result []model.Billboard
	for _, b := range f.billboards {
		if b.CompanyID == companyID {
			result = append(result, *b)
		}
	}
	return result, int64(len(result)), nil
}

func (f *fakeBillboardRepo) FindReservations(ctx context.Context, billboardIDs []uuid.UUID, excludeDocumentID *uuid.UUID) ([]model.DocumentItem, error) {
	wanted := make(map[uuid.UUID]bool, len(billboardIDs))
	for _, id := range billboardIDs {
		wanted[id] = true
	}
	var result []model.DocumentItem
	for _, r := range f.reservations {
		if r.BillboardID == nil || !wanted[*r.BillboardID] {
			continue
		}
		if excludeDocumentID != nil && r.DocumentID == *excludeDocumentID {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}

// --- payments ---

type fakePaymentRepo struct {
	payments map[uuid.UUID]*model.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[uuid.UUID]*model.Payment)}
}

func (f *fakePaymentRepo) Create(ctx context.Context, payment *model.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	f.payments[payment.ID] = payment
	return nil
}

func (f *fakePaymentRepo) Update(ctx context.Context, payment *model.Payment) error {
	f.payments[payment.ID] = payment
	return nil
}

func (f *fakePaymentRepo) FindByTransaction(ctx context.Context, transactionID uuid.UUID) (*model.Payment, error) {
	for _, p := range f.payments {
		if p.TransactionID != nil && *p.TransactionID == transactionID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePaymentRepo) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]model.Payment, error) {
	var result []model.Payment
	for _, p := range f.payments {
		if p.DocumentID == documentID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (f *fakePaymentRepo) CountByDocument(ctx context.Context, documentID uuid.UUID) (int64, error) {
	var count int64
	for _, p := range f.payments {
		if p.DocumentID == documentID {
			count++
		}
	}
	return count, nil
}

func (f *fakePaymentRepo) DeleteByTransaction(ctx context.Context, transactionID uuid.UUID) error {
	for id, p := range f.payments {
		if p.TransactionID != nil && *p.TransactionID == transactionID {
			delete(f.payments, id)
		}
	}
	return nil
}

// --- transactions ---

type fakeTransactionRepo struct {
	txs map[uuid.UUID]*model.Transaction
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{txs: make(map[uuid.UUID]*model.Transaction)}
}

func (f *fakeTransactionRepo) Create(ctx context.Context, tx *model.Transaction) error {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	stored := *tx
	f.txs[tx.ID] = &stored
	return nil
}

func (f *fakeTransactionRepo) Update(ctx context.Context, tx *model.Transaction) error {
	stored := *tx
	f.txs[tx.ID] = &stored
	return nil
}

func (f *fakeTransactionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.txs, id)
	return nil
}

func (f *fakeTransactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	tx, ok := f.txs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	found := *tx
	return &found, nil
}

func (f *fakeTransactionRepo) List(ctx context.Context, filter repository.TransactionListFilter) ([]model.Transaction, int64, error) {
	var result []model.Transaction
	for _, tx := range f.txs {
		if tx.CompanyID != filter.CompanyID {
			continue
		}
		if filter.Kind != "" && tx.Kind != filter.Kind {
			continue
		}
		result = append(result, *tx)
	}
	return result, int64(len(result)), nil
}

func (f *fakeTransactionRepo) CountByDocument(ctx context.Context, documentID uuid.UUID) (int64, error) {
	var count int64
	for _, tx := range f.txs {
		if tx.DocumentID == documentID {
			count++
		}
	}
	return count, nil
}

// --- ledger ---

type fakeLedgerRepo struct {
	entries []model.LedgerEntry
}

func (f *fakeLedgerRepo) CreateBatch(ctx context.Context, entries []model.LedgerEntry) error {
	f.entries = append(f.entries, entries...)
	return nil
}

func (f *fakeLedgerRepo) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]model.LedgerEntry, error) {
	var result []model.LedgerEntry
	for _, e := range f.entries {
		if e.DocumentID != nil && *e.DocumentID == documentID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (f *fakeLedgerRepo) SumByAccount(ctx context.Context, account string, subjectID uuid.UUID) (float64, error) {
	sum := decimal.Zero
	for _, e := range f.entries {
		if e.Account == account && e.SubjectID == subjectID {
			sum = sum.Add(e.Amount)
		}
	}
	v, _ := sum.Float64()
	return v, nil
}

// --- notifications ---

type fakeNotificationRepo struct {
	notifs []model.Notification
}

func (f *fakeNotificationRepo) Create(ctx context.Context, notif *model.Notification) error {
	if notif.ID == uuid.Nil {
		notif.ID = uuid.New()
	}
	f.notifs = append(f.notifs, *notif)
	return nil
}

func (f *fakeNotificationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i, n := range f.notifs {
		if n.ID == id {
			f.notifs = append(f.notifs[:i], f.notifs[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeNotificationRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	for _, n := range f.notifs {
		if n.ID == id {
			found := n
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeNotificationRepo) List(ctx context.Context, companyID uuid.UUID, unreadOnly bool, page, limit int) ([]model.Notification, int64, error) {
	var result []model.Notification
	for _, n := range f.notifs {
		if n.CompanyID != companyID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		result = append(result, n)
	}
	return result, int64(len(result)), nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, id uuid.UUID) error {
	for i, n := range f.notifs {
		if n.ID == id {
			f.notifs[i].IsRead = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeNotificationRepo) MarkAllRead(ctx context.Context, companyID uuid.UUID) error {
	for i, n := range f.notifs {
		if n.CompanyID == companyID {
			f.notifs[i].IsRead = true
		}
	}
	return nil
}

// --- companies ---

type fakeCompanyRepo struct {
	companies map[uuid.UUID]*model.Company
}

func newFakeCompanyRepo() *fakeCompanyRepo {
	return &fakeCompanyRepo{companies: make(map[uuid.UUID]*model.Company)}
}

func (f *fakeCompanyRepo) add(company *model.Company) *model.Company {
	if company.ID == uuid.Nil {
		company.ID = uuid.New()
	}
	f.companies[company.ID] = company
	return company
}

func (f *fakeCompanyRepo) Create(ctx context.Context, company *model.Company) error {
	f.add(company)
	return nil
}

func (f *fakeCompanyRepo) Update(ctx context.Context, company *model.Company) error {
	f.companies[company.ID] = company
	return nil
}

func (f *fakeCompanyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.companies, id)
	return nil
}

func (f *fakeCompanyRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Company, error) {
	company, ok := f.companies[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return company, nil
}

func (f *fakeCompanyRepo) List(ctx context.Context, page, limit int) ([]model.Company, int64, error) {
	var result []model.Company
	for _, c := range f.companies {
		result = append(result, *c)
	}
	return result, int64(len(result)), nil
}

// --- audit ---

type fakeAuditRepo struct {
	logs []model.AuditLog
}

func (f *fakeAuditRepo) Log(ctx context.Context, entry *model.AuditLog) error {
	f.logs = append(f.logs, *entry)
	return nil
}

func (f *fakeAuditRepo) List(ctx context.Context, action string, page, limit int) ([]model.AuditLog, int64, error) {
	var result []model.AuditLog
	for _, l := range f.logs {
		if action != "" && l.Action != action {
			continue
		}
		result = append(result, l)
	}
	return result, int64(len(result)), nil
}
