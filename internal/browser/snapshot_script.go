package browser

// SnapshotFunction returns a JS function that serializes the page for the
// snapshot package: every element with its attributes, string className,
// layout box, computed display/visibility and onclick presence, open shadow
// roots inline, and one entry per iframe of the main document. Each iframe
// element carries the index of its frame entry; subtrees deeper than
// MAX_DEPTH are cut and the snapshot is marked truncated.
func SnapshotFunction() string {
	return `() => {
		const MAX_DEPTH = 1024;
		const frameIndex = new Map();
		const iframes = document.querySelectorAll('iframe');
		iframes.forEach((iframe, i) => frameIndex.set(iframe, i));
		let truncated = false;

		const snapChildren = (parent, depth) => {
			const out = [];
			for (const child of parent.childNodes) {
				const snap = snapNode(child, depth + 1);
				if (snap) out.push(snap);
			}
			return out;
		};

		const snapNode = (node, depth) => {
			if (node.nodeType === Node.TEXT_NODE) {
				return { tag: '#text', value: node.data };
			}
			if (node.nodeType !== Node.ELEMENT_NODE) {
				return null;
			}
			if (depth > MAX_DEPTH) {
				truncated = true;
				return null;
			}

			const el = node;
			const view = (el.ownerDocument && el.ownerDocument.defaultView) || window;
			const style = view.getComputedStyle(el);
			const rect = el.getBoundingClientRect();

			const attrs = {};
			for (const attr of el.attributes) {
				attrs[attr.name] = attr.value;
			}

			const snap = {
				tag: el.tagName.toLowerCase(),
				attrs: attrs,
				className: typeof el.className === 'string' ? el.className : '',
				rect: { x: rect.x, y: rect.y, width: rect.width, height: rect.height },
				display: style.display,
				visibility: style.visibility,
				onclick: !!el.onclick,
				children: snapChildren(el, depth),
			};

			if (frameIndex.has(el)) {
				snap.frame = frameIndex.get(el);
			}

			if (el.shadowRoot) {
				snap.shadow = {
					mode: el.shadowRoot.mode,
					children: snapChildren(el.shadowRoot, depth),
				};
			}

			return snap;
		};

		const snapDocument = (doc) => ({
			url: doc.location ? doc.location.href : '',
			children: snapChildren(doc, 0),
		});

		const frames = [];
		iframes.forEach((iframe) => {
			try {
				const inner = iframe.contentDocument;
				if (!inner) {
					frames.push({ accessible: false, reason: 'cross-origin' });
					return;
				}
				frames.push({ accessible: true, document: snapDocument(inner) });
			} catch (e) {
				frames.push({ accessible: false, reason: String((e && e.message) || e) });
			}
		});

		const result = snapDocument(document);
		result.frames = frames;
		result.truncated = truncated;
		return result;
	}`
}

// SnapshotExpression wraps SnapshotFunction into an immediately invoked
// expression for drivers that evaluate expressions rather than functions.
func SnapshotExpression() string {
	return "(" + SnapshotFunction() + ")()"
}
