package i18n

// messages is the static API message catalog. It is populated once at package
// init and never mutated afterwards; Message performs read-only lookups.
var messages = map[string]Text{
	"product.not_found": {
		AR: "المنتج غير موجود",
		EN: "Product not found",
	},
	"cart.product_not_found": {
		AR: "المنتج غير موجود",
		EN: "Product not found",
	},
	"cart.empty": {
		AR: "السلة فارغة",
		EN: "Cart is empty",
	},
	"cart.item_not_found": {
		AR: "عنصر السلة غير موجود",
		EN: "Cart item not found",
	},
	"order.not_found": {
		AR: "الطلب غير موجود",
		EN: "Order not found",
	},
	"order.already_paid": {
		AR: "تم دفع الطلب بالفعل",
		EN: "Order is already paid",
	},
	"order.invalid_status": {
		AR: "حالة الطلب غير صالحة",
		EN: "Invalid order status transition",
	},
	"order.payment_method_invalid": {
		AR: "طريقة الدفع غير مطابقة للطلب",
		EN: "Order is not set for this payment method",
	},
	"payment.session_failed": {
		AR: "فشل إنشاء جلسة الدفع",
		EN: "Failed to create payment session",
	},
	"offer.not_found": {
		AR: "العرض غير موجود",
		EN: "Offer not found",
	},
	"offer.target_required": {
		AR: "نطاق العرض يتطلب تحديد هدف",
		EN: "Offer scope requires a target",
	},
	"category.not_found": {
		AR: "الفئة غير موجودة",
		EN: "Category not found",
	},
	"subcategory.not_found": {
		AR: "الفئة الفرعية غير موجودة",
		EN: "SubCategory not found",
	},
	"size.not_found": {
		AR: "المقاس غير موجود",
		EN: "Size not found",
	},
	"color.not_found": {
		AR: "اللون غير موجود",
		EN: "Color not found",
	},
	"banner.not_found": {
		AR: "البانر غير موجود",
		EN: "Banner not found",
	},
	"story.not_found": {
		AR: "القصة غير موجودة",
		EN: "Story not found",
	},
	"user.not_found": {
		AR: "المستخدم غير موجود",
		EN: "User not found",
	},
	"address.not_found": {
		AR: "العنوان غير موجود",
		EN: "Address not found",
	},
	"error.unauthorized": {
		AR: "غير مصرح",
		EN: "Unauthorized",
	},
	"error.forbidden": {
		AR: "ممنوع",
		EN: "Forbidden",
	},
	"error.internal_server": {
		AR: "خطأ في الخادم",
		EN: "Internal server error",
	},
	"validation.failed": {
		AR: "فشل التحقق من البيانات",
		EN: "Validation failed",
	},
}

// Message returns the catalog entry for key in the given language, falling
// back to Arabic when the requested side is empty. Unknown keys are returned
// verbatim so callers never lose the original identifier.
func Message(key string, lang Language) string {
	t, ok := messages[key]
	if !ok {
		return key
	}
	if s := t.Localize(lang); s != "" {
		return s
	}
	return key
}
